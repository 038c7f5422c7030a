package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/http/middleware"
	"commerce-backend/internal/http/response"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized", nil)
		return
	}
	var in service.CreateOrderInput
	if !decodeJSON(w, r, &in) {
		return
	}
	order, err := h.orders.Create(r.Context(), user.ID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "order.created", "user_id", user.ID, "order_number", order.OrderNumber, "total", order.TotalPrice)
	response.JSON(w, r, http.StatusCreated, order)
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized", nil)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.orders.GetForUser(r.Context(), id, user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, order)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized", nil)
		return
	}
	orders, err := h.orders.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, orders)
}

func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, orders)
}

func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var result domain.PaymentResult
	if !decodeJSON(w, r, &result) {
		return
	}
	order, err := h.orders.MarkPaid(r.Context(), id, result)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "order.paid", "order_number", order.OrderNumber)
	response.JSON(w, r, http.StatusOK, order)
}

func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.orders.MarkDelivered(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "order.delivered", "order_number", order.OrderNumber)
	response.JSON(w, r, http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "order.status_changed", "order_number", order.OrderNumber, "status", order.Status)
	response.JSON(w, r, http.StatusOK, order)
}

func (h *OrderHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in service.RefundInput
	if !decodeJSON(w, r, &in) {
		return
	}
	order, err := h.orders.Refund(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "order.refunded", "order_number", order.OrderNumber, "amount", order.RefundResult.Amount)
	response.JSON(w, r, http.StatusOK, order)
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id64 == 0 {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "invalid id", nil)
		return 0, false
	}
	return uint(id64), true
}
