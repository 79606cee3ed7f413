package sales

import (
	"github.com/go-chi/chi/v5"
	"github.com/juju/clock"

	"restaurant-ordering/internal/microservices/sales/handlers"
	"restaurant-ordering/internal/microservices/sales/service"
	"restaurant-ordering/internal/repository"
)

func New(repo *repository.Repository, clk clock.Clock) (*service.Service, *handlers.Handler) {
	svc := service.New(repo, clk)
	return svc, handlers.New(svc)
}

func Routes(r chi.Router, h *handlers.Handler) {
	r.Get("/api/sales", h.SalesHandler.Summary)
}
