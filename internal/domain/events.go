package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventOrderCreated      EventType = "order.created"
	EventOrderPaid         EventType = "order.paid"
	EventOrderUnpaid       EventType = "order.unpaid"
	EventOrderCompleted    EventType = "order.completed"
	EventOrderCancelled    EventType = "order.cancelled"
	EventOrderPurged       EventType = "order.purged"
	EventBestsellerUpdated EventType = "bestseller.updated"
)

// OrderEvent is the message published on every lifecycle change.
type OrderEvent struct {
	EventType    EventType       `json:"event_type"`
	OrderID      string          `json:"order_id,omitempty"`
	Stage        Stage           `json:"stage,omitempty"`
	OrderType    string          `json:"order_type,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	Items        []OrderItem     `json:"items,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

func NewOrderEvent(typ EventType, o Order, stage Stage, at time.Time) OrderEvent {
	return OrderEvent{
		EventType:    typ,
		OrderID:      o.ID,
		Stage:        stage,
		OrderType:    o.OrderType,
		CustomerName: o.CustomerName,
		Items:        o.Items,
		TotalAmount:  o.Price,
		OccurredAt:   at,
	}
}
