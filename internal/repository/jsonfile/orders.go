package jsonfile

import (
	"context"
	"fmt"

	"github.com/juju/errors"

	"restaurant-ordering/internal/domain"
)

type OrderRepository struct{ s *Store }

func (r *OrderRepository) List(ctx context.Context) (domain.Collections, error) {
	var c domain.Collections
	err := r.s.withLock(func() error {
		var err error
		c, err = r.collections()
		return err
	})
	return c, err
}

func (r *OrderRepository) Find(ctx context.Context, id string) (domain.Order, domain.Stage, error) {
	c, err := r.List(ctx)
	if err != nil {
		return domain.Order{}, "", err
	}
	for _, st := range domain.Stages {
		for _, o := range c.Stage(st) {
			if o.ID == id {
				return o, st, nil
			}
		}
	}
	return domain.Order{}, "", errors.NotFoundf("order %q", id)
}

func (r *OrderRepository) Create(ctx context.Context, build func(domain.Collections) (domain.Order, error)) (domain.Order, error) {
	var created domain.Order
	err := r.s.withLock(func() error {
		c, err := r.collections()
		if err != nil {
			return err
		}
		if created, err = build(c); err != nil {
			return err
		}
		if c.Contains(created.ID) {
			return errors.AlreadyExistsf("order %q", created.ID)
		}
		return r.s.writeStage(domain.StageOpen, append(c.Orders, created))
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

func (r *OrderRepository) Move(ctx context.Context, id string, from, to domain.Stage, mutate func(*domain.Order)) (domain.Order, error) {
	var moved domain.Order
	err := r.s.withLock(func() error {
		src, err := r.s.readStage(from)
		if err != nil {
			return err
		}
		idx := indexOf(src, id)
		if idx < 0 {
			return notInStage(id, from)
		}
		dst, err := r.s.readStage(to)
		if err != nil {
			return err
		}

		moved = src[idx].Clone()
		if mutate != nil {
			mutate(&moved)
		}
		// destination first: a crash here leaves a duplicate that reconcile
		// resolves in favour of the later stage
		if err := r.s.writeStage(to, append(dst, moved)); err != nil {
			return err
		}
		return r.s.writeStage(from, append(src[:idx], src[idx+1:]...))
	})
	if err != nil {
		return domain.Order{}, err
	}
	return moved, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string, from domain.Stage) (domain.Order, error) {
	var removed domain.Order
	err := r.s.withLock(func() error {
		src, err := r.s.readStage(from)
		if err != nil {
			return err
		}
		idx := indexOf(src, id)
		if idx < 0 {
			return notInStage(id, from)
		}
		removed = src[idx]
		return r.s.writeStage(from, append(src[:idx], src[idx+1:]...))
	})
	if err != nil {
		return domain.Order{}, err
	}
	return removed, nil
}

func (r *OrderRepository) CompletedOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := r.s.withLock(func() error {
		var err error
		out, err = r.s.readStage(domain.StageCompleted)
		return err
	})
	return out, err
}

func (r *OrderRepository) collections() (domain.Collections, error) {
	var (
		c   domain.Collections
		err error
	)
	if c.Orders, err = r.s.readStage(domain.StageOpen); err != nil {
		return c, err
	}
	if c.PaidOrders, err = r.s.readStage(domain.StagePaid); err != nil {
		return c, err
	}
	if c.CompletedOrders, err = r.s.readStage(domain.StageCompleted); err != nil {
		return c, err
	}
	return c, nil
}

func indexOf(orders []domain.Order, id string) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}

func notInStage(id string, st domain.Stage) error {
	return errors.NewNotFound(nil, fmt.Sprintf("order %q not found in %s orders", id, st))
}
