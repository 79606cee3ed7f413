package payment

import (
	"github.com/go-chi/chi/v5"

	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/microservices/payment/handlers"
	"restaurant-ordering/internal/microservices/payment/service"
)

func New(cfg config.PaymentConfig) *handlers.Handler {
	return handlers.New(service.New(cfg))
}

func Routes(r chi.Router, h *handlers.Handler) {
	r.Post("/api/payments", h.PaymentHandler.CreateIntent)
}
