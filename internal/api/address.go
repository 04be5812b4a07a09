package api

import (
	"encoding/json"
	"net/http"

	"analog-alley-be/internal/address"
	"analog-alley-be/internal/utils"

	"github.com/google/uuid"
)

type addressRequest struct {
	Street       string `json:"street"`
	City         string `json:"city"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	SetAsDefault bool   `json:"set_as_default"`
}

func addressIDFromPath(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("addressID"))
	return id, err == nil
}

func (h *Handler) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	addrs, err := h.addressSvc.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"addresses": addrs})
}

func (h *Handler) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := addressIDFromPath(r)
	if !ok {
		utils.WriteJSONError(w, "invalid address id", http.StatusBadRequest)
		return
	}

	addr, err := h.addressSvc.Get(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, addr)
}

func (h *Handler) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	addr, err := h.addressSvc.Create(r.Context(), userID(r), address.CreateAddressInput{
		Street:       req.Street,
		City:         req.City,
		Province:     req.Province,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		SetAsDefault: req.SetAsDefault,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, addr)
}

func (h *Handler) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := addressIDFromPath(r)
	if !ok {
		utils.WriteJSONError(w, "invalid address id", http.StatusBadRequest)
		return
	}

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	addr, err := h.addressSvc.Update(r.Context(), userID(r), address.UpdateAddressInput{
		AddressID:    id,
		Street:       req.Street,
		City:         req.City,
		Province:     req.Province,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		SetAsDefault: req.SetAsDefault,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, addr)
}

func (h *Handler) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := addressIDFromPath(r)
	if !ok {
		utils.WriteJSONError(w, "invalid address id", http.StatusBadRequest)
		return
	}

	if err := h.addressSvc.Delete(r.Context(), userID(r), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := addressIDFromPath(r)
	if !ok {
		utils.WriteJSONError(w, "invalid address id", http.StatusBadRequest)
		return
	}

	if err := h.addressSvc.SetDefault(r.Context(), userID(r), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
