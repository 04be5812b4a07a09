package cart

import (
	"context"
	"errors"

	"analog-alley-be/internal/logger"
	"analog-alley-be/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	// AddItem uses add-or-increment semantics: adding a product already in
	// the cart increases its quantity. It is always safe to call repeatedly.
	AddItem(ctx context.Context, userID uint, productID uuid.UUID, qty int) (*CartItem, error)
	// UpdateQuantity overwrites a line's quantity; newQty <= 0 removes it.
	UpdateQuantity(ctx context.Context, userID uint, productID uuid.UUID, newQty int) error
	RemoveItem(ctx context.Context, userID uint, productID uuid.UUID) error
	Clear(ctx context.Context, userID uint) error
	GetCart(ctx context.Context, userID uint) ([]*CartItem, error)
	// Count never fails the caller: it degrades to 0 on store errors.
	Count(ctx context.Context, userID uint) int
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

// NewService creates a new cart service.
func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) AddItem(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
	qty int,
) (*CartItem, error) {

	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.repo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	finalQty := qty
	if existing != nil {
		finalQty += existing.Quantity
	}

	// Stock is validated against the combined quantity before the
	// increment is committed.
	if !product.CanFulfill(p, finalQty) {
		return nil, ErrInsufficientStock
	}

	if existing == nil {
		item, err := s.repo.Create(ctx, userID, productID, qty)
		if err != nil {
			return nil, err
		}
		item.Product = p
		return item, nil
	}

	if err := s.repo.UpdateQuantity(ctx, userID, productID, finalQty); err != nil {
		return nil, err
	}

	existing.Quantity = finalQty
	existing.Product = p
	return existing, nil
}

func (s *service) UpdateQuantity(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
	newQty int,
) error {

	if newQty <= 0 {
		// Quantity zero means the line is gone, not left at zero.
		return s.RemoveItem(ctx, userID, productID)
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}

	if !product.CanFulfill(p, newQty) {
		return ErrInsufficientStock
	}

	return s.repo.UpdateQuantity(ctx, userID, productID, newQty)
}

func (s *service) RemoveItem(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
) error {

	err := s.repo.Remove(ctx, userID, productID)
	if errors.Is(err, ErrCartItemNotFound) {
		// Idempotent delete: removing a line that is already gone succeeds.
		return nil
	}
	return err
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	return s.repo.Clear(ctx, userID)
}

func (s *service) GetCart(
	ctx context.Context,
	userID uint,
) ([]*CartItem, error) {

	return s.repo.Rows(ctx, userID)
}

func (s *service) Count(ctx context.Context, userID uint) int {
	count, err := s.repo.Count(ctx, userID)
	if err != nil {
		// Badge counts never break the rendering path.
		logger.FromCtx(ctx).Warn("cart count degraded to zero",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return 0
	}
	return count
}
