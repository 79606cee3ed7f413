package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/repository"
	"restaurant-ordering/internal/repository/jsonfile"
)

var t0 = time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func newTestRepo(t *testing.T) (*repository.Repository, *jsonfile.Store) {
	t.Helper()
	store, err := jsonfile.Open(t.TempDir(), jsonfile.Options{Clock: testclock.NewClock(t0)})
	require.NoError(t, err)
	repo := repository.NewFile(store)

	_, err = repo.MenuRepo.Update(context.Background(), func(m *domain.Menu) error {
		*m = testMenu()
		return nil
	})
	require.NoError(t, err)
	return repo, store
}

func completeOrder(t *testing.T, repo *repository.Repository, id string, items ...domain.OrderItem) {
	t.Helper()
	ctx := context.Background()
	_, err := repo.OrderRepo.Create(ctx, func(domain.Collections) (domain.Order, error) {
		return domain.Order{ID: id, OrderType: domain.OrderTypeDineIn, CustomerName: "Ana", TimeOfOrder: t0, Items: items}, nil
	})
	require.NoError(t, err)
	_, err = repo.OrderRepo.Move(ctx, id, domain.StageOpen, domain.StagePaid, func(o *domain.Order) { o.MarkPaid(t0) })
	require.NoError(t, err)
	_, err = repo.OrderRepo.Move(ctx, id, domain.StagePaid, domain.StageCompleted, func(o *domain.Order) { o.MarkCompleted(t0) })
	require.NoError(t, err)
}

func TestRecomputeStoresAndTagsMenu(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	pub := &recordingPublisher{}
	bs := NewBestsellerService(repo, pub, testclock.NewClock(t0))

	completeOrder(t, repo, "ORD001", domain.OrderItem{Name: "Adobo", Quantity: 3}, domain.OrderItem{Name: "Coke", Quantity: 9})
	completeOrder(t, repo, "ORD002", domain.OrderItem{ID: "4", Quantity: 1})

	res, err := bs.Recompute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Processed)
	require.Len(t, res.TopItems, 2)
	assert.Equal(t, "Adobo", res.TopItems[0].Name)
	assert.Equal(t, "Lumpia", res.TopItems[1].Name)

	data, err := bs.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Coke", data.Items[0].Name)
	assert.Equal(t, t0, data.LastUpdated)

	m, err := repo.MenuRepo.Load(ctx)
	require.NoError(t, err)
	for _, it := range m.Items {
		assert.Equal(t, it.ID == "1" || it.ID == "4", it.IsBestseller, it.Name)
	}

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventBestsellerUpdated, pub.events[0].EventType)
}

func TestRecomputeIsSerialised(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	bs := NewBestsellerService(repo, nil, testclock.NewClock(t0))
	completeOrder(t, repo, "ORD001", domain.OrderItem{Name: "Adobo", Quantity: 1})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, bs.Refresh(ctx))
		}()
	}
	wg.Wait()

	data, err := bs.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.Items[0].Quantity)
}

func TestGetWithoutDataIsNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	bs := NewBestsellerService(repo, nil, testclock.NewClock(t0))

	_, err := bs.Get(context.Background())
	assert.True(t, errors.Is(err, errors.NotFound))
	_, err = bs.Check(context.Background(), "1")
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestSaveAndCheck(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	bs := NewBestsellerService(repo, nil, testclock.NewClock(t0))

	assert.True(t, errors.Is(bs.Save(ctx, domain.BestsellerData{}), errors.NotValid))

	items := make([]domain.BestsellerEntry, 0, 7)
	for _, it := range testMenu().Items {
		items = append(items, domain.BestsellerEntry{ID: it.ID, Name: it.Name})
	}
	require.NoError(t, bs.Save(ctx, domain.BestsellerData{Items: items}))

	data, err := bs.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, t0, data.LastUpdated)

	ok, err := bs.Check(ctx, "5")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bs.Check(ctx, "6")
	require.NoError(t, err)
	assert.False(t, ok)
}
