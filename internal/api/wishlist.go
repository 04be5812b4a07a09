package api

import (
	"encoding/json"
	"net/http"

	"analog-alley-be/internal/utils"

	"github.com/google/uuid"
)

type addWishlistItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

func (h *Handler) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlistSvc.GetWishlist(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleWishlistCount(w http.ResponseWriter, r *http.Request) {
	count := h.wishlistSvc.Count(r.Context(), userID(r))
	utils.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *Handler) handleAddWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req addWishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.wishlistSvc.Add(r.Context(), userID(r), req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleRemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(r.PathValue("productID"))
	if err != nil {
		utils.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.wishlistSvc.Remove(r.Context(), userID(r), productID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlistSvc.Clear(r.Context(), userID(r)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
