package api

import (
	"net/http"
	"strconv"

	"github.com/quickbite/backend/internal/models"
	"github.com/quickbite/backend/internal/orders"
)

func (h *Handlers) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req submitOrderRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	lines := make([]models.OrderLine, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		lines = append(lines, models.OrderLine{ItemCode: item.ItemCode, Quantity: item.Quantity})
	}

	order, err := h.orders.Submit(r.Context(), orders.SubmitRequest{
		UserID:         claims.UserID,
		Lines:          lines,
		Discount:       req.Discount,
		DeliveryCharge: req.DeliveryCharge,
		Taxes:          req.Taxes,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":         "Order summary saved",
		"order_number":    order.OrderNumber,
		"subtotal":        order.Subtotal,
		"discount":        order.Discount,
		"delivery_charge": order.DeliveryCharge,
		"taxes":           order.Taxes,
	})
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	result, err := h.orderStore.ListByUser(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
