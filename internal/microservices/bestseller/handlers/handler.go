package handlers

import "restaurant-ordering/internal/microservices/bestseller/service"

type Handler struct {
	BestsellerHandler *BestsellerHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		BestsellerHandler: NewBestsellerHandler(s.BestsellerService),
	}
}
