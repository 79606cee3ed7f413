package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/validate"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/repository"
)

// Recomputer rebuilds the bestseller ranking from completed orders.
type Recomputer interface {
	Refresh(ctx context.Context) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	List(ctx context.Context) (domain.Collections, error)
	Get(ctx context.Context, id string) (domain.Order, domain.Stage, error)
	MarkPaid(ctx context.Context, id string) (domain.Order, error)
	MarkUnpaid(ctx context.Context, id string) (domain.Order, error)
	Complete(ctx context.Context, id string) (domain.Order, error)
	Cancel(ctx context.Context, id string) (domain.Order, error)
	DeleteCompleted(ctx context.Context, id string) (domain.Order, error)
}

type OrderService struct {
	db          repository.OrderRepositoryInterface
	bestsellers Recomputer
	events      events.Publisher
	clock       clock.Clock
	log         *logger.Logger

	mu      sync.Mutex
	lastSeq int // highest sequence handed out by this process
}

func NewOrderService(db repository.OrderRepositoryInterface, rc Recomputer, pub events.Publisher, clk clock.Clock) OrderServiceInterface {
	if pub == nil {
		pub = events.Nop{}
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &OrderService{db: db, bestsellers: rc, events: pub, clock: clk, log: logger.New("order-service")}
}

func (or *OrderService) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	// 1. Validation
	if err := validate.Struct(req); err != nil {
		return domain.Order{}, err
	}
	if req.Price.IsNegative() {
		return domain.Order{}, errors.NewNotValid(nil, "price must not be negative")
	}
	table, contact := trimmed(req.Table), trimmed(req.ContactNumber)
	switch req.OrderType {
	case domain.OrderTypeDineIn:
		if table == nil {
			return domain.Order{}, errors.NewNotValid(nil, "table is required for dine-in orders")
		}
		contact = nil
	case domain.OrderTypePickUp:
		if contact == nil {
			return domain.Order{}, errors.NewNotValid(nil, "contactNumber is required for pick-up orders")
		}
		table = nil
	}

	// 2. Assign the id and save under the store lock
	order, err := or.db.Create(ctx, func(c domain.Collections) (domain.Order, error) {
		return domain.Order{
			ID:                   or.nextID(c),
			OrderType:            req.OrderType,
			CustomerName:         strings.TrimSpace(req.CustomerName),
			Table:                table,
			ContactNumber:        contact,
			TimeOfOrder:          or.clock.Now().UTC(),
			Price:                req.Price,
			Items:                req.Items,
			AdditionalInfo:       req.AdditionalInfo,
			PaymentMethod:        req.PaymentMethod,
			GCashReferenceNumber: req.GCashReferenceNumber,
		}, nil
	})
	if err != nil {
		return domain.Order{}, errors.Annotate(err, "save order")
	}

	// 3. Notify
	or.log.Info("order_created", map[string]any{
		"order_id":   order.ID,
		"order_type": order.OrderType,
		"items":      len(order.Items),
		"price":      order.Price.String(),
	})
	or.publish(ctx, domain.EventOrderCreated, order, domain.StageOpen)
	return order, nil
}

// nextID derives the id from the open collection length, then skips
// anything already used in any stage or earlier in this process.
func (or *OrderService) nextID(c domain.Collections) string {
	or.mu.Lock()
	defer or.mu.Unlock()

	n := len(c.Orders) + 1
	if n <= or.lastSeq {
		n = or.lastSeq + 1
	}
	for c.Contains(formatID(n)) {
		n++
	}
	or.lastSeq = n
	return formatID(n)
}

func formatID(n int) string { return fmt.Sprintf("ORD%03d", n) }

func (or *OrderService) List(ctx context.Context) (domain.Collections, error) {
	return or.db.List(ctx)
}

func (or *OrderService) Get(ctx context.Context, id string) (domain.Order, domain.Stage, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Order{}, "", err
	}
	return or.db.Find(ctx, id)
}

func (or *OrderService) MarkPaid(ctx context.Context, id string) (domain.Order, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := or.db.Move(ctx, id, domain.StageOpen, domain.StagePaid, func(o *domain.Order) {
		o.MarkPaid(or.clock.Now().UTC())
	})
	if err != nil {
		return domain.Order{}, err
	}
	or.log.Info("order_paid", map[string]any{"order_id": id})
	or.publish(ctx, domain.EventOrderPaid, o, domain.StagePaid)
	return o, nil
}

func (or *OrderService) MarkUnpaid(ctx context.Context, id string) (domain.Order, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := or.db.Move(ctx, id, domain.StagePaid, domain.StageOpen, func(o *domain.Order) {
		o.ClearPayment()
	})
	if err != nil {
		return domain.Order{}, err
	}
	or.log.Info("order_unpaid", map[string]any{"order_id": id})
	or.publish(ctx, domain.EventOrderUnpaid, o, domain.StageOpen)
	return o, nil
}

// Complete moves a paid order to completed and refreshes the bestsellers.
// The move stands even when the refresh fails.
func (or *OrderService) Complete(ctx context.Context, id string) (domain.Order, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := or.db.Move(ctx, id, domain.StagePaid, domain.StageCompleted, func(o *domain.Order) {
		o.MarkCompleted(or.clock.Now().UTC())
	})
	if err != nil {
		return domain.Order{}, err
	}
	or.log.Info("order_completed", map[string]any{"order_id": id})
	or.refresh(ctx, id)
	or.publish(ctx, domain.EventOrderCompleted, o, domain.StageCompleted)
	return o, nil
}

func (or *OrderService) Cancel(ctx context.Context, id string) (domain.Order, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := or.db.Delete(ctx, id, domain.StageOpen)
	if err != nil {
		return domain.Order{}, err
	}
	or.log.Info("order_cancelled", map[string]any{"order_id": id})
	or.publish(ctx, domain.EventOrderCancelled, o, domain.StageOpen)
	return o, nil
}

func (or *OrderService) DeleteCompleted(ctx context.Context, id string) (domain.Order, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := or.db.Delete(ctx, id, domain.StageCompleted)
	if err != nil {
		return domain.Order{}, err
	}
	or.log.Info("completed_order_deleted", map[string]any{"order_id": id})
	or.refresh(ctx, id)
	or.publish(ctx, domain.EventOrderPurged, o, domain.StageCompleted)
	return o, nil
}

func (or *OrderService) refresh(ctx context.Context, id string) {
	if or.bestsellers == nil {
		return
	}
	if err := or.bestsellers.Refresh(ctx); err != nil {
		or.log.Error("bestseller_refresh_failed", err, map[string]any{"order_id": id})
	}
}

func (or *OrderService) publish(ctx context.Context, typ domain.EventType, o domain.Order, stage domain.Stage) {
	ev := domain.NewOrderEvent(typ, o, stage, or.clock.Now().UTC())
	if err := or.events.Publish(ctx, ev); err != nil {
		or.log.Error("publish_failed", err, map[string]any{"order_id": o.ID, "event_type": typ})
	}
}

// requireID returns id without surrounding whitespace, or NotValid when
// nothing is left.
func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewNotValid(nil, "order ID is required")
	}
	return id, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
