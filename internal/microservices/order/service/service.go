package service

import (
	"github.com/juju/clock"

	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/repository"
)

type Service struct {
	OrderService OrderServiceInterface
}

func New(db *repository.Repository, rc Recomputer, pub events.Publisher, clk clock.Clock) *Service {
	return &Service{
		OrderService: NewOrderService(db.OrderRepo, rc, pub, clk),
	}
}
