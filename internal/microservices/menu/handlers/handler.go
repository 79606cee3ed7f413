package handlers

import "restaurant-ordering/internal/microservices/menu/service"

type Handler struct {
	MenuHandler *MenuHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		MenuHandler: NewMenuHandler(s.MenuService),
	}
}
