package service

import (
	"github.com/juju/clock"

	"restaurant-ordering/internal/repository"
)

type Service struct {
	SalesService SalesServiceInterface
}

func New(repo *repository.Repository, clk clock.Clock) *Service {
	return &Service{
		SalesService: NewSalesService(repo.OrderRepo, clk),
	}
}
