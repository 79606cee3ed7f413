package handlers

import "restaurant-ordering/internal/microservices/sales/service"

type Handler struct {
	SalesHandler *SalesHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		SalesHandler: NewSalesHandler(s.SalesService),
	}
}
