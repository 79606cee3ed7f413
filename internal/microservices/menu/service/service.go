package service

import (
	"restaurant-ordering/internal/repository"
)

type Service struct {
	MenuService MenuServiceInterface
}

func New(repo *repository.Repository, policy DeletePolicy, rc Recomputer) *Service {
	return &Service{
		MenuService: NewMenuService(repo.MenuRepo, policy, rc),
	}
}
