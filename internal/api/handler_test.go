package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"analog-alley-be/internal/cart"
	"analog-alley-be/internal/checkout"
	"analog-alley-be/internal/guest"
	"analog-alley-be/internal/order"
	"analog-alley-be/internal/product"
	"analog-alley-be/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, userID uint, input order.CreateOrderInput) (*order.Order, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, userID uint) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, userID uint, orderID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, userID uint, orderID uuid.UUID) error {
	args := m.Called(ctx, userID, orderID)
	return args.Error(0)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Start(ctx context.Context, userID uint) (*checkout.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Session), args.Error(1)
}

func (m *MockCheckoutService) Get(ctx context.Context, userID uint) (*checkout.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Session), args.Error(1)
}

func (m *MockCheckoutService) SelectAddress(ctx context.Context, userID uint, addressID uuid.UUID) (*checkout.Session, error) {
	args := m.Called(ctx, userID, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Session), args.Error(1)
}

func (m *MockCheckoutService) ChangeAddress(ctx context.Context, userID uint) (*checkout.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Session), args.Error(1)
}

func (m *MockCheckoutService) SelectPayment(ctx context.Context, userID uint, method string) (*checkout.Session, error) {
	args := m.Called(ctx, userID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Session), args.Error(1)
}

func (m *MockCheckoutService) Submit(ctx context.Context, userID uint) (*checkout.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Session), args.Error(1)
}

type MockGuestStore struct {
	mock.Mock
}

func (m *MockGuestStore) AddCartEntry(ctx context.Context, guestID string, productID uuid.UUID, qty int) error {
	args := m.Called(ctx, guestID, productID, qty)
	return args.Error(0)
}

func (m *MockGuestStore) CartEntries(ctx context.Context, guestID string) ([]guest.CartEntry, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]guest.CartEntry), args.Error(1)
}

func (m *MockGuestStore) AddWishlistEntry(ctx context.Context, guestID string, productID uuid.UUID) error {
	args := m.Called(ctx, guestID, productID)
	return args.Error(0)
}

func (m *MockGuestStore) WishlistEntries(ctx context.Context, guestID string) ([]uuid.UUID, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockGuestStore) MarkMerged(ctx context.Context, guestID, kind string, productID uuid.UUID) error {
	args := m.Called(ctx, guestID, kind, productID)
	return args.Error(0)
}

func (m *MockGuestStore) IsMerged(ctx context.Context, guestID, kind string, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, guestID, kind, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuestStore) Clear(ctx context.Context, guestID string) error {
	args := m.Called(ctx, guestID)
	return args.Error(0)
}

type handlerMocks struct {
	cartSvc     *MockCartService
	orderSvc    *MockOrderService
	checkoutSvc *MockCheckoutService
	guestStore  *MockGuestStore
}

func newTestMux() (handlerMocks, *http.ServeMux) {
	m := handlerMocks{
		cartSvc:     new(MockCartService),
		orderSvc:    new(MockOrderService),
		checkoutSvc: new(MockCheckoutService),
		guestStore:  new(MockGuestStore),
	}

	h := NewHandler(m.cartSvc, nil, m.guestStore, nil, nil, m.checkoutSvc, m.orderSvc)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return m, mux
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(utils.SetUserContext(req.Context(), 1, "kodak@example.com"))
}

func TestCartEndpoints(t *testing.T) {
	t.Run("UnauthenticatedRejected", func(t *testing.T) {
		_, mux := newTestMux()

		req := httptest.NewRequest("GET", "/api/cart", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GetCart", func(t *testing.T) {
		m, mux := newTestMux()
		productID := uuid.New()

		m.cartSvc.On("GetCart", mock.Anything, uint(1)).Return([]*cart.CartItem{
			{
				ProductID: productID,
				Quantity:  2,
				Product:   &product.Product{ID: productID, Name: "Yashica Mat-124G", Price: 2_500_000},
			},
		}, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("GET", "/api/cart", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []*cart.CartItem `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Yashica Mat-124G", resp.Items[0].Product.Name)
	})

	t.Run("AddItemInsufficientStockMapsToConflict", func(t *testing.T) {
		m, mux := newTestMux()
		productID := uuid.New()

		m.cartSvc.On("AddItem", mock.Anything, uint(1), productID, 3).
			Return(nil, cart.ErrInsufficientStock)

		body, _ := json.Marshal(addCartItemRequest{ProductID: productID, Quantity: 3})
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/api/cart/items", body))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("AddItemBadBody", func(t *testing.T) {
		_, mux := newTestMux()

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/api/cart/items", []byte("{not json")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("RemoveItem", func(t *testing.T) {
		m, mux := newTestMux()
		productID := uuid.New()

		m.cartSvc.On("RemoveItem", mock.Anything, uint(1), productID).Return(nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("DELETE", "/api/cart/items/"+productID.String(), nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("InvalidProductID", func(t *testing.T) {
		_, mux := newTestMux()

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("DELETE", "/api/cart/items/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGuestEndpoints(t *testing.T) {
	t.Run("MissingGuestHeader", func(t *testing.T) {
		_, mux := newTestMux()

		req := httptest.NewRequest("GET", "/api/guest/cart", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("AddCartEntry", func(t *testing.T) {
		m, mux := newTestMux()
		productID := uuid.New()

		m.guestStore.On("AddCartEntry", mock.Anything, "guest-abc", productID, 1).Return(nil)

		body, _ := json.Marshal(guestCartItemRequest{ProductID: productID, Quantity: 1})
		req := httptest.NewRequest("POST", "/api/guest/cart/items", bytes.NewReader(body))
		req.Header.Set("X-Guest-ID", "guest-abc")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("ZeroQuantityRejected", func(t *testing.T) {
		_, mux := newTestMux()

		body, _ := json.Marshal(guestCartItemRequest{ProductID: uuid.New(), Quantity: 0})
		req := httptest.NewRequest("POST", "/api/guest/cart/items", bytes.NewReader(body))
		req.Header.Set("X-Guest-ID", "guest-abc")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckoutEndpoints(t *testing.T) {
	t.Run("SubmitExpiredSessionMapsToGone", func(t *testing.T) {
		m, mux := newTestMux()

		m.checkoutSvc.On("Submit", mock.Anything, uint(1)).
			Return(nil, checkout.ErrSessionExpired)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/api/checkout/submit", nil))

		assert.Equal(t, http.StatusGone, w.Code)
	})

	t.Run("SubmitTimeoutMapsToGatewayTimeout", func(t *testing.T) {
		m, mux := newTestMux()

		m.checkoutSvc.On("Submit", mock.Anything, uint(1)).
			Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/api/checkout/submit", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})

	t.Run("SelectPayment", func(t *testing.T) {
		m, mux := newTestMux()

		m.checkoutSvc.On("SelectPayment", mock.Anything, uint(1), "cod").
			Return(&checkout.Session{State: checkout.StateSelectingPayment, PaymentMethod: "cod"}, nil)

		body, _ := json.Marshal(checkoutPaymentRequest{Method: "cod"})
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/api/checkout/payment", body))

		require.Equal(t, http.StatusOK, w.Code)

		var sess checkout.Session
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
		assert.Equal(t, "cod", sess.PaymentMethod)
	})

	t.Run("StartWithEmptyCart", func(t *testing.T) {
		m, mux := newTestMux()

		m.checkoutSvc.On("Start", mock.Anything, uint(1)).
			Return(nil, order.ErrEmptyCart)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/api/checkout", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderEndpoints(t *testing.T) {
	t.Run("GetMissingOrder", func(t *testing.T) {
		m, mux := newTestMux()
		orderID := uuid.New()

		m.orderSvc.On("Get", mock.Anything, uint(1), orderID).
			Return(nil, order.ErrOrderNotFound)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("GET", "/api/orders/"+orderID.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("CancelShippedOrder", func(t *testing.T) {
		m, mux := newTestMux()
		orderID := uuid.New()

		m.orderSvc.On("Cancel", mock.Anything, uint(1), orderID).
			Return(order.ErrOrderNotCancellable)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/api/orders/"+orderID.String()+"/cancel", nil))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("InternalErrorIsOpaque", func(t *testing.T) {
		m, mux := newTestMux()

		m.orderSvc.On("List", mock.Anything, uint(1)).
			Return(nil, errors.New("pq: connection refused"))

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("GET", "/api/orders", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}
