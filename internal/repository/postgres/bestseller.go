package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/juju/errors"

	"restaurant-ordering/internal/domain"
)

type BestsellerRepository struct{ s *Store }

func (r *BestsellerRepository) Load(ctx context.Context) (domain.BestsellerData, error) {
	var payload []byte
	err := r.s.pool.QueryRow(ctx, `SELECT payload FROM bestsellers WHERE id=1`).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.BestsellerData{}, errors.NotFoundf("bestseller data")
	}
	if err != nil {
		return domain.BestsellerData{}, errors.Annotate(err, "load bestsellers")
	}
	var data domain.BestsellerData
	if err := json.Unmarshal(payload, &data); err != nil {
		return domain.BestsellerData{}, errors.Annotate(err, "decode bestsellers")
	}
	if data.Items == nil {
		return domain.BestsellerData{}, errors.NotFoundf("bestseller data")
	}
	return data, nil
}

func (r *BestsellerRepository) Save(ctx context.Context, data domain.BestsellerData) error {
	if data.Items == nil {
		data.Items = []domain.BestsellerEntry{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Trace(err)
	}
	_, err = r.s.pool.Exec(ctx, `
		INSERT INTO bestsellers (id, payload, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`, payload)
	return errors.Annotate(err, "save bestsellers")
}
