package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/order/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
}

func NewOrderHandler(s service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

func (oh *OrderHandler) AddOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	// Call service layer
	order, err := oh.service.Create(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, order)
}

func (oh *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	c, err := oh.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (oh *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, stage, err := oh.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, domain.OrderView{Order: o, Stage: stage})
}

func (oh *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	oh.transition(w, r, oh.service.MarkPaid, "Order marked as paid", true)
}

func (oh *OrderHandler) MarkUnpaid(w http.ResponseWriter, r *http.Request) {
	oh.transition(w, r, oh.service.MarkUnpaid, "Order marked as unpaid", true)
}

func (oh *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	oh.transition(w, r, oh.service.Complete, "Order completed successfully", true)
}

func (oh *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	oh.transition(w, r, oh.service.Cancel, "Order cancelled successfully", false)
}

func (oh *OrderHandler) DeleteCompleted(w http.ResponseWriter, r *http.Request) {
	oh.transition(w, r, oh.service.DeleteCompleted, "Completed order deleted successfully", false)
}

func (oh *OrderHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id string) (domain.Order, error),
	message string,
	withOrder bool,
) {
	var req domain.OrderIDRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
	}
	o, err := op(r.Context(), req.OrderID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	resp := domain.OrderActionResponse{Message: message}
	if withOrder {
		resp.Order = &o
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
