package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/models"
)

func (h *Handlers) CreateAddress(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req addressRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	address, err := h.addresses.Create(r.Context(), &models.Address{
		UserID:       claims.UserID,
		HouseBlockNo: req.HouseBlockNo,
		AreaRoad:     req.AreaRoad,
		City:         req.City,
		District:     req.District,
		State:        req.State,
		Country:      req.Country,
		Pincode:      req.Pincode,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Address added",
		"id":      address.ID,
	})
}

func (h *Handlers) ListAddresses(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	addresses, err := h.addresses.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, addresses)
}

func (h *Handlers) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, database.ErrValidation)
		return
	}

	var req addressRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	err = h.addresses.Update(r.Context(), &models.Address{
		ID:           id,
		UserID:       claims.UserID,
		HouseBlockNo: req.HouseBlockNo,
		AreaRoad:     req.AreaRoad,
		City:         req.City,
		District:     req.District,
		State:        req.State,
		Country:      req.Country,
		Pincode:      req.Pincode,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Address updated")
}

func (h *Handlers) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, database.ErrValidation)
		return
	}

	if err := h.addresses.Delete(r.Context(), id, claims.UserID); err != nil {
		h.respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Address deleted")
}
