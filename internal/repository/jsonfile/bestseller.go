package jsonfile

import (
	"context"

	"github.com/juju/errors"

	"restaurant-ordering/internal/domain"
)

type BestsellerRepository struct{ s *Store }

func (r *BestsellerRepository) Load(ctx context.Context) (domain.BestsellerData, error) {
	var data domain.BestsellerData
	err := r.s.withLock(func() error {
		found, err := r.s.read(BestsellerFile, &data)
		if err != nil {
			return err
		}
		if !found || data.Items == nil {
			return errors.NotFoundf("bestseller data")
		}
		return nil
	})
	if err != nil {
		return domain.BestsellerData{}, err
	}
	return data, nil
}

func (r *BestsellerRepository) Save(ctx context.Context, data domain.BestsellerData) error {
	if data.Items == nil {
		data.Items = []domain.BestsellerEntry{}
	}
	return r.s.withLock(func() error {
		return r.s.write(BestsellerFile, data)
	})
}
