package address

import (
	"context"

	"analog-alley-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the business logic for the address book.
type Service interface {
	List(ctx context.Context, userID uint) ([]*Address, error)
	Get(ctx context.Context, userID uint, addressID uuid.UUID) (*Address, error)

	Create(ctx context.Context, userID uint, input CreateAddressInput) (*Address, error)
	Update(ctx context.Context, userID uint, input UpdateAddressInput) (*Address, error)
	Delete(ctx context.Context, userID uint, addressID uuid.UUID) error

	SetDefault(ctx context.Context, userID uint, addressID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(
	ctx context.Context,
	userID uint,
) ([]*Address, error) {

	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) Get(
	ctx context.Context,
	userID uint,
	addressID uuid.UUID,
) (*Address, error) {

	addr, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	// Ownership check doubles as existence check; other users' addresses
	// are indistinguishable from missing ones.
	if addr == nil || addr.UserID != userID {
		return nil, ErrAddressNotFound
	}

	return addr, nil
}

func (s *service) Create(
	ctx context.Context,
	userID uint,
	input CreateAddressInput,
) (*Address, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "Create"),
		zap.Uint("user_id", userID),
	)

	if input.Street == "" || input.City == "" {
		return nil, ErrInvalidAddress
	}

	existing, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	addr := &Address{
		ID:         uuid.New(),
		UserID:     userID,
		Street:     input.Street,
		City:       input.City,
		Province:   input.Province,
		PostalCode: input.PostalCode,
		Country:    input.Country,
	}

	if err := s.repo.Create(ctx, addr); err != nil {
		log.Error("failed to create address", zap.Error(err))
		return nil, err
	}

	// The first address becomes the default automatically.
	if input.SetAsDefault || existing == 0 {
		if err := s.repo.SetDefault(ctx, userID, addr.ID); err != nil {
			log.Error("failed to set default address", zap.Error(err))
			return nil, err
		}
		addr.IsDefault = true
	}

	log.Info("address created", zap.String("address_id", addr.ID.String()))
	return addr, nil
}

func (s *service) Update(
	ctx context.Context,
	userID uint,
	input UpdateAddressInput,
) (*Address, error) {

	existing, err := s.Get(ctx, userID, input.AddressID)
	if err != nil {
		return nil, err
	}

	existing.Street = input.Street
	existing.City = input.City
	existing.Province = input.Province
	existing.PostalCode = input.PostalCode
	existing.Country = input.Country

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	if input.SetAsDefault && !existing.IsDefault {
		if err := s.repo.SetDefault(ctx, userID, existing.ID); err != nil {
			return nil, err
		}
		existing.IsDefault = true
	}

	return existing, nil
}

func (s *service) Delete(
	ctx context.Context,
	userID uint,
	addressID uuid.UUID,
) error {

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "Delete"),
		zap.Uint("user_id", userID),
		zap.String("address_id", addressID.String()),
	)

	existing, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, addressID, userID); err != nil {
		return err
	}

	// Deleting the default promotes the most recent remaining address so
	// checkout keeps a sensible preselection.
	if existing.IsDefault {
		remaining, err := s.repo.MostRecent(ctx, userID)
		if err != nil {
			log.Warn("failed to look up replacement default", zap.Error(err))
			return nil
		}
		if remaining != nil {
			if err := s.repo.SetDefault(ctx, userID, remaining.ID); err != nil {
				log.Warn("failed to promote replacement default", zap.Error(err))
			}
		}
	}

	log.Info("address deleted")
	return nil
}

func (s *service) SetDefault(
	ctx context.Context,
	userID uint,
	addressID uuid.UUID,
) error {

	// Ownership first so a foreign id cannot clear the user's default.
	if _, err := s.Get(ctx, userID, addressID); err != nil {
		return err
	}

	return s.repo.SetDefault(ctx, userID, addressID)
}
