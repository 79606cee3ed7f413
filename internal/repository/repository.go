package repository

import (
	"context"

	"restaurant-ordering/internal/domain"
)

type MenuRepositoryInterface interface {
	Load(ctx context.Context) (domain.Menu, error)
	// Update runs fn against the current menu and persists the result as one
	// read-modify-write. Nothing is written when fn fails.
	Update(ctx context.Context, fn func(*domain.Menu) error) (domain.Menu, error)
}

type OrderRepositoryInterface interface {
	List(ctx context.Context) (domain.Collections, error)
	Find(ctx context.Context, id string) (domain.Order, domain.Stage, error)
	// Create builds the new order from the current collections, so id
	// assignment and insert happen under the same lock.
	Create(ctx context.Context, build func(domain.Collections) (domain.Order, error)) (domain.Order, error)
	// Move takes id out of from, applies mutate and stores it in to.
	Move(ctx context.Context, id string, from, to domain.Stage, mutate func(*domain.Order)) (domain.Order, error)
	Delete(ctx context.Context, id string, from domain.Stage) (domain.Order, error)
	CompletedOrders(ctx context.Context) ([]domain.Order, error)
}

type BestsellerRepositoryInterface interface {
	// Load returns errors.NotFound when nothing was ever stored.
	Load(ctx context.Context) (domain.BestsellerData, error)
	Save(ctx context.Context, data domain.BestsellerData) error
}

type Repository struct {
	MenuRepo       MenuRepositoryInterface
	OrderRepo      OrderRepositoryInterface
	BestsellerRepo BestsellerRepositoryInterface

	closer func()
}

func (r *Repository) Close() {
	if r != nil && r.closer != nil {
		r.closer()
	}
}
