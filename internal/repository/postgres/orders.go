package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/juju/errors"

	"restaurant-ordering/internal/domain"
)

type OrderRepository struct{ s *Store }

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *OrderRepository) List(ctx context.Context) (domain.Collections, error) {
	return listOrders(ctx, r.s.pool)
}

func listOrders(ctx context.Context, q queryer) (domain.Collections, error) {
	c := domain.Collections{Orders: []domain.Order{}, PaidOrders: []domain.Order{}, CompletedOrders: []domain.Order{}}
	rows, err := q.Query(ctx, `SELECT stage, payload FROM orders ORDER BY seq`)
	if err != nil {
		return c, errors.Annotate(err, "list orders")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			stage   string
			payload []byte
		)
		if err := rows.Scan(&stage, &payload); err != nil {
			return c, errors.Trace(err)
		}
		var o domain.Order
		if err := json.Unmarshal(payload, &o); err != nil {
			return c, errors.Annotate(err, "decode order")
		}
		switch domain.Stage(stage) {
		case domain.StageOpen:
			c.Orders = append(c.Orders, o)
		case domain.StagePaid:
			c.PaidOrders = append(c.PaidOrders, o)
		case domain.StageCompleted:
			c.CompletedOrders = append(c.CompletedOrders, o)
		}
	}
	return c, errors.Trace(rows.Err())
}

func (r *OrderRepository) Find(ctx context.Context, id string) (domain.Order, domain.Stage, error) {
	var (
		stage   string
		payload []byte
	)
	err := r.s.pool.QueryRow(ctx, `SELECT stage, payload FROM orders WHERE id=$1`, id).Scan(&stage, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, "", errors.NotFoundf("order %q", id)
	}
	if err != nil {
		return domain.Order{}, "", errors.Annotate(err, "find order")
	}
	var o domain.Order
	if err := json.Unmarshal(payload, &o); err != nil {
		return domain.Order{}, "", errors.Annotate(err, "decode order")
	}
	return o, domain.Stage(stage), nil
}

func (r *OrderRepository) Create(ctx context.Context, build func(domain.Collections) (domain.Order, error)) (domain.Order, error) {
	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, errors.Annotate(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// id assignment reads the whole book, so creators queue up here
	if _, err := tx.Exec(ctx, `LOCK TABLE orders IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return domain.Order{}, errors.Annotate(err, "lock orders")
	}
	c, err := listOrders(ctx, tx)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := build(c)
	if err != nil {
		return domain.Order{}, err
	}
	if c.Contains(o.ID) {
		return domain.Order{}, errors.AlreadyExistsf("order %q", o.ID)
	}
	payload, err := json.Marshal(o)
	if err != nil {
		return domain.Order{}, errors.Trace(err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO orders (id, stage, payload) VALUES ($1, $2, $3)`,
		o.ID, string(domain.StageOpen), payload); err != nil {
		return domain.Order{}, errors.Annotate(err, "insert order")
	}
	if err := logStatus(ctx, tx, o.ID, string(domain.StageOpen)); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, errors.Annotate(err, "commit")
	}
	return o, nil
}

// Move checks the current stage under a row lock, rewrites the order and
// logs the transition in one transaction.
func (r *OrderRepository) Move(ctx context.Context, id string, from, to domain.Stage, mutate func(*domain.Order)) (domain.Order, error) {
	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, errors.Annotate(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := lockOrder(ctx, tx, id, from)
	if err != nil {
		return domain.Order{}, err
	}
	if mutate != nil {
		mutate(&o)
	}
	payload, err := json.Marshal(o)
	if err != nil {
		return domain.Order{}, errors.Trace(err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE orders
		SET stage=$2, payload=$3, seq=nextval(pg_get_serial_sequence('orders', 'seq')), updated_at=now()
		WHERE id=$1
	`, id, string(to), payload); err != nil {
		return domain.Order{}, errors.Annotate(err, "update order")
	}
	if err := logStatus(ctx, tx, id, string(to)); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, errors.Annotate(err, "commit")
	}
	return o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string, from domain.Stage) (domain.Order, error) {
	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, errors.Annotate(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := lockOrder(ctx, tx, id, from)
	if err != nil {
		return domain.Order{}, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id); err != nil {
		return domain.Order{}, errors.Annotate(err, "delete order")
	}
	if err := logStatus(ctx, tx, id, "deleted"); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, errors.Annotate(err, "commit")
	}
	return o, nil
}

func (r *OrderRepository) CompletedOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.s.pool.Query(ctx, `SELECT payload FROM orders WHERE stage=$1 ORDER BY seq`, string(domain.StageCompleted))
	if err != nil {
		return nil, errors.Annotate(err, "list completed orders")
	}
	defer rows.Close()
	out := []domain.Order{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Trace(err)
		}
		var o domain.Order
		if err := json.Unmarshal(payload, &o); err != nil {
			return nil, errors.Annotate(err, "decode order")
		}
		out = append(out, o)
	}
	return out, errors.Trace(rows.Err())
}

func lockOrder(ctx context.Context, tx pgx.Tx, id string, from domain.Stage) (domain.Order, error) {
	var (
		stage   string
		payload []byte
	)
	err := tx.QueryRow(ctx, `SELECT stage, payload FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&stage, &payload)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && domain.Stage(stage) != from) {
		return domain.Order{}, errors.NewNotFound(nil, fmt.Sprintf("order %q not found in %s orders", id, from))
	}
	if err != nil {
		return domain.Order{}, errors.Annotate(err, "select order")
	}
	var o domain.Order
	if err := json.Unmarshal(payload, &o); err != nil {
		return domain.Order{}, errors.Annotate(err, "decode order")
	}
	return o, nil
}

func logStatus(ctx context.Context, tx pgx.Tx, id, status string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, now())
	`, id, status, changedBy)
	return errors.Annotate(err, "insert order status log")
}
