package handlers

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/microservices/payment/service"
)

type PaymentHandler struct {
	service service.PaymentServiceInterface
}

func NewPaymentHandler(s service.PaymentServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: s}
}

func (ph *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req service.IntentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	resp, err := ph.service.CreateIntent(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
