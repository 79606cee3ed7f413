package service

import (
	"context"
	"sync"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/repository"
)

// Result describes one recomputation.
type Result struct {
	Processed int
	TopItems  []domain.BestsellerEntry
	Data      domain.BestsellerData
}

type BestsellerServiceInterface interface {
	Recompute(ctx context.Context) (Result, error)
	// Refresh is Recompute for callers that only care about failure.
	Refresh(ctx context.Context) error
	Get(ctx context.Context) (domain.BestsellerData, error)
	Save(ctx context.Context, data domain.BestsellerData) error
	Check(ctx context.Context, itemID string) (bool, error)
}

type BestsellerService struct {
	menu   repository.MenuRepositoryInterface
	orders repository.OrderRepositoryInterface
	store  repository.BestsellerRepositoryInterface
	events events.Publisher
	clock  clock.Clock
	log    *logger.Logger

	mu sync.Mutex // one recomputation at a time
}

func NewBestsellerService(repo *repository.Repository, pub events.Publisher, clk clock.Clock) BestsellerServiceInterface {
	if pub == nil {
		pub = events.Nop{}
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &BestsellerService{
		menu:   repo.MenuRepo,
		orders: repo.OrderRepo,
		store:  repo.BestsellerRepo,
		events: pub,
		clock:  clk,
		log:    logger.New("bestseller-service"),
	}
}

// Recompute rebuilds the ranking from completed orders, stores it and
// retags the menu.
func (bs *BestsellerService) Recompute(ctx context.Context) (Result, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	menu, err := bs.menu.Load(ctx)
	if err != nil {
		return Result{}, errors.Annotate(err, "load menu")
	}
	completed, err := bs.orders.CompletedOrders(ctx)
	if err != nil {
		return Result{}, errors.Annotate(err, "load completed orders")
	}

	entries, processed := Aggregate(menu, completed)
	data := domain.BestsellerData{Items: entries, LastUpdated: bs.clock.Now().UTC()}
	if err := bs.store.Save(ctx, data); err != nil {
		return Result{}, errors.Annotate(err, "save bestsellers")
	}

	top := Top(entries, TopCount)
	if _, err := bs.menu.Update(ctx, func(m *domain.Menu) error {
		Flag(m, top)
		return nil
	}); err != nil {
		return Result{}, errors.Annotate(err, "tag menu")
	}

	bs.log.Info("bestsellers_recomputed", map[string]any{
		"orders":    len(completed),
		"processed": processed,
		"top_items": len(top),
	})
	if err := bs.events.Publish(ctx, domain.OrderEvent{EventType: domain.EventBestsellerUpdated, OccurredAt: data.LastUpdated}); err != nil {
		bs.log.Error("publish_failed", err, map[string]any{"event_type": domain.EventBestsellerUpdated})
	}
	return Result{Processed: processed, TopItems: top, Data: data}, nil
}

func (bs *BestsellerService) Refresh(ctx context.Context) error {
	_, err := bs.Recompute(ctx)
	return err
}

func (bs *BestsellerService) Get(ctx context.Context) (domain.BestsellerData, error) {
	return bs.store.Load(ctx)
}

func (bs *BestsellerService) Save(ctx context.Context, data domain.BestsellerData) error {
	if data.Items == nil {
		return errors.NewNotValid(nil, "invalid bestseller data format: items are required")
	}
	if data.LastUpdated.IsZero() {
		data.LastUpdated = bs.clock.Now().UTC()
	}
	if err := bs.store.Save(ctx, data); err != nil {
		return err
	}
	bs.log.Info("bestsellers_saved", map[string]any{"items": len(data.Items)})
	return nil
}

// Check reports whether itemID is among the first TopCount stored entries.
func (bs *BestsellerService) Check(ctx context.Context, itemID string) (bool, error) {
	data, err := bs.store.Load(ctx)
	if err != nil {
		return false, err
	}
	for i, e := range data.Items {
		if i == TopCount {
			break
		}
		if e.ID == itemID {
			return true, nil
		}
	}
	return false, nil
}
