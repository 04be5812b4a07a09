package api

import (
	"encoding/json"
	"net/http"

	"analog-alley-be/internal/utils"

	"github.com/google/uuid"
)

type checkoutAddressRequest struct {
	AddressID uuid.UUID `json:"address_id"`
}

type checkoutPaymentRequest struct {
	Method string `json:"method"`
}

func (h *Handler) handleStartCheckout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkoutSvc.Start(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, sess)
}

func (h *Handler) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkoutSvc.Get(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleCheckoutAddress(w http.ResponseWriter, r *http.Request) {
	var req checkoutAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, err := h.checkoutSvc.SelectAddress(r.Context(), userID(r), req.AddressID)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleCheckoutChangeAddress(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkoutSvc.ChangeAddress(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleCheckoutPayment(w http.ResponseWriter, r *http.Request) {
	var req checkoutPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, err := h.checkoutSvc.SelectPayment(r.Context(), userID(r), req.Method)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleCheckoutSubmit(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkoutSvc.Submit(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, sess)
}
