package guest

import (
	"context"
	"errors"
	"testing"

	"analog-alley-be/internal/cart"
	"analog-alley-be/internal/wishlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) AddCartEntry(ctx context.Context, guestID string, productID uuid.UUID, qty int) error {
	args := m.Called(ctx, guestID, productID, qty)
	return args.Error(0)
}

func (m *MockStore) CartEntries(ctx context.Context, guestID string) ([]CartEntry, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CartEntry), args.Error(1)
}

func (m *MockStore) AddWishlistEntry(ctx context.Context, guestID string, productID uuid.UUID) error {
	args := m.Called(ctx, guestID, productID)
	return args.Error(0)
}

func (m *MockStore) WishlistEntries(ctx context.Context, guestID string) ([]uuid.UUID, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockStore) MarkMerged(ctx context.Context, guestID, kind string, productID uuid.UUID) error {
	args := m.Called(ctx, guestID, kind, productID)
	return args.Error(0)
}

func (m *MockStore) IsMerged(ctx context.Context, guestID, kind string, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, guestID, kind, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Clear(ctx context.Context, guestID string) error {
	args := m.Called(ctx, guestID)
	return args.Error(0)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, userID uint, productID uuid.UUID, qty int) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, userID uint, productID uuid.UUID, newQty int) error {
	args := m.Called(ctx, userID, productID, newQty)
	return args.Error(0)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID uint, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartService) GetCart(ctx context.Context, userID uint) ([]*cart.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.CartItem), args.Error(1)
}

func (m *MockCartService) Count(ctx context.Context, userID uint) int {
	args := m.Called(ctx, userID)
	return args.Int(0)
}

type MockWishlistService struct {
	mock.Mock
}

func (m *MockWishlistService) Add(ctx context.Context, userID uint, productID uuid.UUID) (*wishlist.WishlistItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wishlist.WishlistItem), args.Error(1)
}

func (m *MockWishlistService) Remove(ctx context.Context, userID uint, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockWishlistService) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockWishlistService) GetWishlist(ctx context.Context, userID uint) ([]*wishlist.WishlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wishlist.WishlistItem), args.Error(1)
}

func (m *MockWishlistService) Count(ctx context.Context, userID uint) int {
	args := m.Called(ctx, userID)
	return args.Int(0)
}

func TestReconciler_Merge(t *testing.T) {
	ctx := context.Background()
	guestID := "guest-abc"
	userID := uint(1)
	productA := uuid.New()
	productB := uuid.New()

	t.Run("MergesCartAndWishlist", func(t *testing.T) {
		store := new(MockStore)
		cartSvc := new(MockCartService)
		wishlistSvc := new(MockWishlistService)
		rec := NewReconciler(store, cartSvc, wishlistSvc)

		store.On("CartEntries", ctx, guestID).
			Return([]CartEntry{{ProductID: productA, Quantity: 2}}, nil)
		store.On("WishlistEntries", ctx, guestID).
			Return([]uuid.UUID{productB}, nil)
		store.On("IsMerged", ctx, guestID, kindCart, productA).Return(false, nil)
		store.On("IsMerged", ctx, guestID, kindWishlist, productB).Return(false, nil)

		cartSvc.On("AddItem", ctx, userID, productA, 2).
			Return(&cart.CartItem{Quantity: 2}, nil)
		wishlistSvc.On("Add", ctx, userID, productB).
			Return(&wishlist.WishlistItem{}, nil)

		store.On("MarkMerged", ctx, guestID, kindCart, productA).Return(nil)
		store.On("MarkMerged", ctx, guestID, kindWishlist, productB).Return(nil)
		store.On("Clear", ctx, guestID).Return(nil)

		err := rec.Merge(ctx, guestID, userID)

		assert.NoError(t, err)
		store.AssertExpectations(t)
		cartSvc.AssertExpectations(t)
		wishlistSvc.AssertExpectations(t)
	})

	t.Run("RetrySkipsAlreadyMergedEntries", func(t *testing.T) {
		store := new(MockStore)
		cartSvc := new(MockCartService)
		wishlistSvc := new(MockWishlistService)
		rec := NewReconciler(store, cartSvc, wishlistSvc)

		store.On("CartEntries", ctx, guestID).
			Return([]CartEntry{
				{ProductID: productA, Quantity: 2},
				{ProductID: productB, Quantity: 1},
			}, nil)
		store.On("WishlistEntries", ctx, guestID).Return([]uuid.UUID{}, nil)

		// First entry already landed in an interrupted earlier run.
		store.On("IsMerged", ctx, guestID, kindCart, productA).Return(true, nil)
		store.On("IsMerged", ctx, guestID, kindCart, productB).Return(false, nil)

		cartSvc.On("AddItem", ctx, userID, productB, 1).
			Return(&cart.CartItem{Quantity: 1}, nil)
		store.On("MarkMerged", ctx, guestID, kindCart, productB).Return(nil)
		store.On("Clear", ctx, guestID).Return(nil)

		err := rec.Merge(ctx, guestID, userID)

		assert.NoError(t, err)
		cartSvc.AssertNotCalled(t, "AddItem", ctx, userID, productA, 2)
	})

	t.Run("DuplicateWishlistEntryIgnored", func(t *testing.T) {
		store := new(MockStore)
		cartSvc := new(MockCartService)
		wishlistSvc := new(MockWishlistService)
		rec := NewReconciler(store, cartSvc, wishlistSvc)

		store.On("CartEntries", ctx, guestID).Return([]CartEntry{}, nil)
		store.On("WishlistEntries", ctx, guestID).Return([]uuid.UUID{productA}, nil)
		store.On("IsMerged", ctx, guestID, kindWishlist, productA).Return(false, nil)

		wishlistSvc.On("Add", ctx, userID, productA).
			Return(nil, wishlist.ErrDuplicateEntry)

		store.On("MarkMerged", ctx, guestID, kindWishlist, productA).Return(nil)
		store.On("Clear", ctx, guestID).Return(nil)

		assert.NoError(t, rec.Merge(ctx, guestID, userID))
	})

	t.Run("UnfulfillableCartEntrySkipped", func(t *testing.T) {
		store := new(MockStore)
		cartSvc := new(MockCartService)
		wishlistSvc := new(MockWishlistService)
		rec := NewReconciler(store, cartSvc, wishlistSvc)

		store.On("CartEntries", ctx, guestID).
			Return([]CartEntry{{ProductID: productA, Quantity: 99}}, nil)
		store.On("WishlistEntries", ctx, guestID).Return([]uuid.UUID{}, nil)
		store.On("IsMerged", ctx, guestID, kindCart, productA).Return(false, nil)

		cartSvc.On("AddItem", ctx, userID, productA, 99).
			Return(nil, cart.ErrInsufficientStock)

		store.On("MarkMerged", ctx, guestID, kindCart, productA).Return(nil)
		store.On("Clear", ctx, guestID).Return(nil)

		assert.NoError(t, rec.Merge(ctx, guestID, userID))
	})

	t.Run("TransientErrorAbortsWithoutClearing", func(t *testing.T) {
		store := new(MockStore)
		cartSvc := new(MockCartService)
		wishlistSvc := new(MockWishlistService)
		rec := NewReconciler(store, cartSvc, wishlistSvc)

		store.On("CartEntries", ctx, guestID).
			Return([]CartEntry{{ProductID: productA, Quantity: 1}}, nil)
		store.On("WishlistEntries", ctx, guestID).Return([]uuid.UUID{}, nil)
		store.On("IsMerged", ctx, guestID, kindCart, productA).Return(false, nil)

		cartSvc.On("AddItem", ctx, userID, productA, 1).
			Return(nil, errors.New("connection refused"))

		err := rec.Merge(ctx, guestID, userID)

		assert.Error(t, err)
		store.AssertNotCalled(t, "Clear", ctx, guestID)
		store.AssertNotCalled(t, "MarkMerged", ctx, guestID, kindCart, productA)
	})

	t.Run("NothingToMergeIsNoOp", func(t *testing.T) {
		store := new(MockStore)
		cartSvc := new(MockCartService)
		wishlistSvc := new(MockWishlistService)
		rec := NewReconciler(store, cartSvc, wishlistSvc)

		store.On("CartEntries", ctx, guestID).Return([]CartEntry{}, nil)
		store.On("WishlistEntries", ctx, guestID).Return([]uuid.UUID{}, nil)

		assert.NoError(t, rec.Merge(ctx, guestID, userID))
		store.AssertNotCalled(t, "Clear", ctx, guestID)
	})
}
