package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/zapvendas/internal/entity"
	"github.com/xavierca1/zapvendas/internal/usecase"
)

type OrderService interface {
	Create(ctx context.Context, input usecase.CreateOrderInput) (*entity.Order, error)
	ListByPhone(ctx context.Context, phone string) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*entity.Order, error)
}

type OrderHandler struct {
	Orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateOrderInput
	if !decodeJSON(w, r, &input) {
		return
	}

	order, err := h.Orders.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: order, Message: "Order created"})
}

func (h *OrderHandler) ListByPhone(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListByPhone(r.Context(), chi.URLParam(r, "phoneNumber"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*entity.Order{}
	}

	count := len(orders)
	writeJSON(w, http.StatusOK, Response{Success: true, Count: &count, Data: orders})
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderId"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: order, Message: "Order status updated"})
}
