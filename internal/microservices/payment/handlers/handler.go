package handlers

import "restaurant-ordering/internal/microservices/payment/service"

type Handler struct {
	PaymentHandler *PaymentHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		PaymentHandler: NewPaymentHandler(s.PaymentService),
	}
}
