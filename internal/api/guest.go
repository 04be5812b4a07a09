package api

import (
	"encoding/json"
	"net/http"

	"analog-alley-be/internal/utils"

	"github.com/google/uuid"
)

// guestID comes from a client-generated header; there is no server-side
// identity for guests.
func guestID(r *http.Request) string {
	return r.Header.Get("X-Guest-ID")
}

type guestCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type guestWishlistItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

func (h *Handler) handleGuestCart(w http.ResponseWriter, r *http.Request) {
	id := guestID(r)
	if id == "" {
		utils.WriteJSONError(w, "missing X-Guest-ID header", http.StatusBadRequest)
		return
	}

	entries, err := h.guestStore.CartEntries(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"items": entries})
}

func (h *Handler) handleGuestAddCartItem(w http.ResponseWriter, r *http.Request) {
	id := guestID(r)
	if id == "" {
		utils.WriteJSONError(w, "missing X-Guest-ID header", http.StatusBadRequest)
		return
	}

	var req guestCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		utils.WriteJSONError(w, "quantity must be at least 1", http.StatusBadRequest)
		return
	}

	if err := h.guestStore.AddCartEntry(r.Context(), id, req.ProductID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleGuestWishlist(w http.ResponseWriter, r *http.Request) {
	id := guestID(r)
	if id == "" {
		utils.WriteJSONError(w, "missing X-Guest-ID header", http.StatusBadRequest)
		return
	}

	productIDs, err := h.guestStore.WishlistEntries(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"product_ids": productIDs})
}

func (h *Handler) handleGuestAddWishlistItem(w http.ResponseWriter, r *http.Request) {
	id := guestID(r)
	if id == "" {
		utils.WriteJSONError(w, "missing X-Guest-ID header", http.StatusBadRequest)
		return
	}

	var req guestWishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.guestStore.AddWishlistEntry(r.Context(), id, req.ProductID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// handleGuestMerge folds the guest's saved items into the signed-in
// user's cart and wishlist. Safe to retry.
func (h *Handler) handleGuestMerge(w http.ResponseWriter, r *http.Request) {
	id := guestID(r)
	if id == "" {
		utils.WriteJSONError(w, "missing X-Guest-ID header", http.StatusBadRequest)
		return
	}

	if err := h.reconciler.Merge(r.Context(), id, userID(r)); err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "merged"})
}
