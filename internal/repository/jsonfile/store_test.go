package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/domain"
)

var t0 = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func openStore(t *testing.T, dir string, processLock bool) *Store {
	t.Helper()
	s, err := Open(dir, Options{ProcessLock: processLock, Clock: testclock.NewClock(t0)})
	require.NoError(t, err)
	return s
}

func newOrder(id string) domain.Order {
	return domain.Order{
		ID:           id,
		OrderType:    domain.OrderTypeDineIn,
		CustomerName: "Ana",
		TimeOfOrder:  t0,
		Price:        decimal.NewFromInt(240),
		Items:        domain.OrderItems{{Name: "Adobo", Quantity: 2}},
	}
}

func TestOpenCreatesCollections(t *testing.T) {
	dir := t.TempDir()
	openStore(t, dir, false)

	for _, name := range []string{MenuFile, OrdersFile, PaidOrdersFile, CompletedOrdersFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(dir, BestsellerFile))
	assert.True(t, os.IsNotExist(err))

	b, err := os.ReadFile(filepath.Join(dir, PaidOrdersFile))
	require.NoError(t, err)
	var env map[string]any
	require.NoError(t, json.Unmarshal(b, &env))
	assert.Equal(t, []any{}, env["paidOrders"])
	assert.Contains(t, env, "lastUpdated")
}

func TestOrderMoves(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t, t.TempDir(), false).Orders()

	_, err := repo.Create(ctx, func(domain.Collections) (domain.Order, error) { return newOrder("ORD001"), nil })
	require.NoError(t, err)

	paid, err := repo.Move(ctx, "ORD001", domain.StageOpen, domain.StagePaid, func(o *domain.Order) { o.MarkPaid(t0) })
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	c, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Orders)
	require.Len(t, c.PaidOrders, 1)
	assert.Equal(t, "ORD001", c.PaidOrders[0].ID)

	_, st, err := repo.Find(ctx, "ORD001")
	require.NoError(t, err)
	assert.Equal(t, domain.StagePaid, st)

	_, err = repo.Move(ctx, "ORD001", domain.StageOpen, domain.StagePaid, nil)
	assert.True(t, errors.Is(err, errors.NotFound))
	assert.Contains(t, err.Error(), "open orders")

	_, err = repo.Move(ctx, "ORD001", domain.StagePaid, domain.StageCompleted, func(o *domain.Order) { o.MarkCompleted(t0) })
	require.NoError(t, err)

	done, err := repo.CompletedOrders(ctx)
	require.NoError(t, err)
	require.Len(t, done, 1)
	require.NotNil(t, done[0].TimeCompleted)
	assert.True(t, done[0].TimeCompleted.Equal(t0))
	assert.True(t, done[0].Price.Equal(decimal.NewFromInt(240)))

	_, err = repo.Delete(ctx, "ORD001", domain.StageCompleted)
	require.NoError(t, err)
	_, err = repo.Delete(ctx, "ORD001", domain.StageCompleted)
	assert.True(t, errors.Is(err, errors.NotFound))

	_, _, err = repo.Find(ctx, "ORD001")
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestCreateRejectsIDInAnyStage(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t, t.TempDir(), false).Orders()

	_, err := repo.Create(ctx, func(domain.Collections) (domain.Order, error) { return newOrder("ORD001"), nil })
	require.NoError(t, err)
	_, err = repo.Move(ctx, "ORD001", domain.StageOpen, domain.StagePaid, nil)
	require.NoError(t, err)

	_, err = repo.Create(ctx, func(domain.Collections) (domain.Order, error) { return newOrder("ORD001"), nil })
	assert.True(t, errors.Is(err, errors.AlreadyExists))
}

func TestReconcileDropsStaleCopies(t *testing.T) {
	dir := t.TempDir()
	write := func(name, key string, orders ...domain.Order) {
		b, err := json.Marshal(map[string]any{key: orders, "lastUpdated": t0})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), b, 0o644))
	}
	write(OrdersFile, "orders", newOrder("ORD001"), newOrder("ORD002"))
	write(PaidOrdersFile, "paidOrders", newOrder("ORD001"), newOrder("ORD003"))
	write(CompletedOrdersFile, "completedOrders", newOrder("ORD003"))

	c, err := openStore(t, dir, false).Orders().List(context.Background())
	require.NoError(t, err)

	ids := func(orders []domain.Order) []string {
		var out []string
		for _, o := range orders {
			out = append(out, o.ID)
		}
		return out
	}
	assert.Equal(t, []string{"ORD002"}, ids(c.Orders))
	assert.Equal(t, []string{"ORD001"}, ids(c.PaidOrders))
	assert.Equal(t, []string{"ORD003"}, ids(c.CompletedOrders))
}

func TestLegacyItemsLoad(t *testing.T) {
	dir := t.TempDir()
	raw := `{"completedOrders":[{"id":"ORD001","items":["Adobo",{"name":"Sinigang"},{"id":"17","quantity":3}]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CompletedOrdersFile), []byte(raw), 0o644))

	done, err := openStore(t, dir, false).Orders().CompletedOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, domain.OrderItems{
		{Name: "Adobo", Quantity: 1},
		{Name: "Sinigang", Quantity: 1},
		{ID: "17", Quantity: 3},
	}, done[0].Items)
}

func TestMenuUpdate(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t, t.TempDir(), true).Menu()

	m, err := repo.Update(ctx, func(m *domain.Menu) error {
		m.Categories = append(m.Categories, domain.Category{ID: "c1", Name: "BEEF"})
		return nil
	})
	require.NoError(t, err)
	assert.True(t, m.LastUpdated.Equal(t0))

	_, err = repo.Update(ctx, func(m *domain.Menu) error {
		m.Categories = nil
		return errors.NotValidf("nope")
	})
	require.Error(t, err)

	m, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, m.Categories, 1)
	assert.Equal(t, "BEEF", m.Categories[0].Name)
	assert.NotNil(t, m.Items)
}

func TestBestsellerLoadSave(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t, t.TempDir(), false).Bestsellers()

	_, err := repo.Load(ctx)
	assert.True(t, errors.Is(err, errors.NotFound))

	data := domain.BestsellerData{
		Items:       []domain.BestsellerEntry{{ID: "1", Name: "Adobo", Quantity: 4, Category: "Mains"}},
		LastUpdated: t0,
	}
	require.NoError(t, repo.Save(ctx, data))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, data.Items, got.Items)
	assert.True(t, got.LastUpdated.Equal(t0))
}
