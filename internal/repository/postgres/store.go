// Package postgres stores the menu, the order book and the bestseller
// ranking in PostgreSQL.
package postgres

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juju/clock"
	"github.com/juju/errors"
)

//go:embed schema.sql
var schema string

// changedBy marks rows in order_status_log written by this service.
const changedBy = "restaurant-api"

type Store struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func New(pool *pgxpool.Pool, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Store{pool: pool, clock: clk}
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return errors.Annotate(err, "apply schema")
	}
	return nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Menu() *MenuRepository { return &MenuRepository{s: s} }
func (s *Store) Orders() *OrderRepository { return &OrderRepository{s: s} }
func (s *Store) Bestsellers() *BestsellerRepository { return &BestsellerRepository{s: s} }
