package service

import (
	"github.com/juju/clock"

	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/repository"
)

type Service struct {
	BestsellerService BestsellerServiceInterface
}

func New(repo *repository.Repository, pub events.Publisher, clk clock.Clock) *Service {
	return &Service{
		BestsellerService: NewBestsellerService(repo, pub, clk),
	}
}
