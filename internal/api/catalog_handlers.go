package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/models"
	"github.com/quickbite/backend/internal/pricing"
)

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handlers) ListFoodItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListFoodItems(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handlers) ListFoodItemsByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, database.ErrValidation)
		return
	}

	items, err := h.catalog.ListFoodItemsByCategory(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// CartTotals is the server-side pricing quote: the client's cart lines and
// coupon code in, the full authoritative breakdown out. Unknown coupon codes
// price as no coupon at all.
func (h *Handlers) CartTotals(w http.ResponseWriter, r *http.Request) {
	var req cartTotalsRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	prices, err := h.catalog.LoadPriceMap(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	var coupon *pricing.Coupon
	if req.CouponCode != "" {
		if c, ok := pricing.LookupCoupon(req.CouponCode); ok {
			coupon = &c
		}
	}

	lines := make([]pricing.Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, pricing.Line{ItemCode: l.ItemCode, Quantity: l.Quantity})
	}

	totals, err := pricing.ComputeTotals(lines, prices, coupon, h.policy)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), req.Name, req.ImageURL)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, database.ErrValidation)
		return
	}

	var req categoryRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.catalog.UpdateCategory(r.Context(), id, req.Name, req.ImageURL); err != nil {
		h.respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Category updated")
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, database.ErrValidation)
		return
	}

	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Category deleted")
}

func (h *Handlers) CreateFoodItem(w http.ResponseWriter, r *http.Request) {
	var req foodItemRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	item, err := h.catalog.CreateFoodItem(r.Context(), &models.FoodItem{
		ItemCode:    req.ItemCode,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handlers) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Admin(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
