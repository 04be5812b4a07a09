package wishlist

import (
	"context"
	"errors"

	"analog-alley-be/internal/logger"
	"analog-alley-be/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the business logic for wishlists.
type Service interface {
	// Add enforces uniqueness: a second add of the same pair reports
	// ErrDuplicateEntry rather than silently merging, since membership is
	// boolean and there is nothing to merge.
	Add(ctx context.Context, userID uint, productID uuid.UUID) (*WishlistItem, error)
	Remove(ctx context.Context, userID uint, productID uuid.UUID) error
	Clear(ctx context.Context, userID uint) error
	GetWishlist(ctx context.Context, userID uint) ([]*WishlistItem, error)
	// Count never fails the caller: it degrades to 0 on store errors.
	Count(ctx context.Context, userID uint) int
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) Add(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
) (*WishlistItem, error) {

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	item, err := s.repo.Add(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	item.Product = p
	return item, nil
}

func (s *service) Remove(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
) error {

	err := s.repo.Remove(ctx, userID, productID)
	if errors.Is(err, ErrItemNotFound) {
		// Idempotent delete.
		return nil
	}
	return err
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	return s.repo.Clear(ctx, userID)
}

func (s *service) GetWishlist(
	ctx context.Context,
	userID uint,
) ([]*WishlistItem, error) {

	return s.repo.Rows(ctx, userID)
}

func (s *service) Count(ctx context.Context, userID uint) int {
	count, err := s.repo.Count(ctx, userID)
	if err != nil {
		logger.FromCtx(ctx).Warn("wishlist count degraded to zero",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return 0
	}
	return count
}
