package api

import (
	"context"
	"errors"
	"net/http"

	"analog-alley-be/internal/address"
	"analog-alley-be/internal/cart"
	"analog-alley-be/internal/checkout"
	"analog-alley-be/internal/guest"
	"analog-alley-be/internal/middleware"
	"analog-alley-be/internal/order"
	"analog-alley-be/internal/utils"
	"analog-alley-be/internal/wishlist"
)

// Handler exposes the storefront REST API.
type Handler struct {
	cartSvc     cart.Service
	wishlistSvc wishlist.Service
	guestStore  guest.Store
	reconciler  *guest.Reconciler
	addressSvc  address.Service
	checkoutSvc checkout.Service
	orderSvc    order.Service
}

func NewHandler(
	cartSvc cart.Service,
	wishlistSvc wishlist.Service,
	guestStore guest.Store,
	reconciler *guest.Reconciler,
	addressSvc address.Service,
	checkoutSvc checkout.Service,
	orderSvc order.Service,
) *Handler {
	return &Handler{
		cartSvc:     cartSvc,
		wishlistSvc: wishlistSvc,
		guestStore:  guestStore,
		reconciler:  reconciler,
		addressSvc:  addressSvc,
		checkoutSvc: checkoutSvc,
		orderSvc:    orderSvc,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	authed := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(fn)
	}

	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.Handle("GET /api/cart", authed(h.handleGetCart))
	mux.Handle("GET /api/cart/count", authed(h.handleCartCount))
	mux.Handle("POST /api/cart/items", authed(h.handleAddCartItem))
	mux.Handle("PATCH /api/cart/items/{productID}", authed(h.handleUpdateCartItem))
	mux.Handle("DELETE /api/cart/items/{productID}", authed(h.handleRemoveCartItem))
	mux.Handle("DELETE /api/cart", authed(h.handleClearCart))

	mux.Handle("GET /api/wishlist", authed(h.handleGetWishlist))
	mux.Handle("GET /api/wishlist/count", authed(h.handleWishlistCount))
	mux.Handle("POST /api/wishlist/items", authed(h.handleAddWishlistItem))
	mux.Handle("DELETE /api/wishlist/items/{productID}", authed(h.handleRemoveWishlistItem))
	mux.Handle("DELETE /api/wishlist", authed(h.handleClearWishlist))

	mux.HandleFunc("GET /api/guest/cart", h.handleGuestCart)
	mux.HandleFunc("POST /api/guest/cart/items", h.handleGuestAddCartItem)
	mux.HandleFunc("GET /api/guest/wishlist", h.handleGuestWishlist)
	mux.HandleFunc("POST /api/guest/wishlist/items", h.handleGuestAddWishlistItem)
	mux.Handle("POST /api/guest/merge", authed(h.handleGuestMerge))

	mux.Handle("GET /api/addresses", authed(h.handleListAddresses))
	mux.Handle("POST /api/addresses", authed(h.handleCreateAddress))
	mux.Handle("GET /api/addresses/{addressID}", authed(h.handleGetAddress))
	mux.Handle("PUT /api/addresses/{addressID}", authed(h.handleUpdateAddress))
	mux.Handle("DELETE /api/addresses/{addressID}", authed(h.handleDeleteAddress))
	mux.Handle("POST /api/addresses/{addressID}/default", authed(h.handleSetDefaultAddress))

	mux.Handle("POST /api/checkout", authed(h.handleStartCheckout))
	mux.Handle("GET /api/checkout", authed(h.handleGetCheckout))
	mux.Handle("POST /api/checkout/address", authed(h.handleCheckoutAddress))
	mux.Handle("POST /api/checkout/address/change", authed(h.handleCheckoutChangeAddress))
	mux.Handle("POST /api/checkout/payment", authed(h.handleCheckoutPayment))
	mux.Handle("POST /api/checkout/submit", authed(h.handleCheckoutSubmit))

	mux.Handle("GET /api/orders", authed(h.handleListOrders))
	mux.Handle("GET /api/orders/{orderID}", authed(h.handleGetOrder))
	mux.Handle("POST /api/orders/{orderID}/cancel", authed(h.handleCancelOrder))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userID assumes RequireAuth already ran.
func userID(r *http.Request) uint {
	id, _ := utils.GetUserIDFromContext(r.Context())
	return id
}

// writeError translates domain errors into HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var code int

	switch {
	case errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, wishlist.ErrProductNotFound),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, wishlist.ErrItemNotFound),
		errors.Is(err, address.ErrAddressNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, checkout.ErrSessionNotFound):
		code = http.StatusNotFound

	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, address.ErrInvalidAddress),
		errors.Is(err, checkout.ErrUnknownPaymentMethod),
		errors.Is(err, order.ErrEmptyCart):
		code = http.StatusBadRequest

	case errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, wishlist.ErrDuplicateEntry),
		errors.Is(err, order.ErrOrderNotCancellable),
		errors.Is(err, checkout.ErrInvalidTransition),
		errors.Is(err, checkout.ErrAddressRequired),
		errors.Is(err, checkout.ErrPaymentRequired),
		errors.Is(err, checkout.ErrSubmitInProgress),
		errors.Is(err, checkout.ErrAlreadyConfirmed):
		code = http.StatusConflict

	case errors.Is(err, checkout.ErrSessionExpired):
		code = http.StatusGone

	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout

	default:
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONError(w, err.Error(), code)
}
