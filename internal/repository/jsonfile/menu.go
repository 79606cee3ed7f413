package jsonfile

import (
	"context"

	"restaurant-ordering/internal/domain"
)

type MenuRepository struct{ s *Store }

func (r *MenuRepository) Load(ctx context.Context) (domain.Menu, error) {
	var m domain.Menu
	err := r.s.withLock(func() error {
		var err error
		m, err = r.load()
		return err
	})
	return m, err
}

func (r *MenuRepository) Update(ctx context.Context, fn func(*domain.Menu) error) (domain.Menu, error) {
	var m domain.Menu
	err := r.s.withLock(func() error {
		var err error
		if m, err = r.load(); err != nil {
			return err
		}
		if err := fn(&m); err != nil {
			return err
		}
		normalise(&m)
		m.LastUpdated = r.s.now()
		return r.s.write(MenuFile, m)
	})
	if err != nil {
		return domain.Menu{}, err
	}
	return m, nil
}

func (r *MenuRepository) load() (domain.Menu, error) {
	var m domain.Menu
	found, err := r.s.read(MenuFile, &m)
	if err != nil {
		return domain.Menu{}, err
	}
	if !found {
		m.LastUpdated = r.s.now()
	}
	normalise(&m)
	return m, nil
}

func normalise(m *domain.Menu) {
	if m.Items == nil {
		m.Items = []domain.MenuItem{}
	}
	if m.Categories == nil {
		m.Categories = []domain.Category{}
	}
}
