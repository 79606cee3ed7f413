// Package events publishes order lifecycle changes to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/juju/errors"
	"github.com/lucsky/cuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/domain"
)

const (
	source         = "restaurant-api"
	publishTimeout = 5 * time.Second
)

type Publisher interface {
	Publish(ctx context.Context, ev domain.OrderEvent) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, domain.OrderEvent) error { return nil }

// Broker is satisfied by *rabbitmq.Client.
type Broker interface {
	Publish(ctx context.Context, exchange, key string, m rabbitmq.Message) error
}

type AMQPPublisher struct {
	broker Broker
}

func NewAMQPPublisher(b Broker) *AMQPPublisher { return &AMQPPublisher{broker: b} }

// Publish routes ev to the topic exchange by event type and fans it out to
// notification subscribers.
func (p *AMQPPublisher) Publish(ctx context.Context, ev domain.OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Annotate(err, "marshal event")
	}
	msg := rabbitmq.Message{
		Body:          body,
		ContentType:   "application/json",
		MessageID:     cuid.New(),
		CorrelationID: ev.OrderID,
		Headers:       amqp.Table{"x-source": source, "x-event-type": string(ev.EventType)},
		Persistent:    true,
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.broker.Publish(ctx, rabbitmq.ExchangeOrders, string(ev.EventType), msg); err != nil {
		return errors.Annotatef(err, "publish %s", ev.EventType)
	}
	if err := p.broker.Publish(ctx, rabbitmq.ExchangeNotifications, "", msg); err != nil {
		return errors.Annotatef(err, "fan out %s", ev.EventType)
	}
	return nil
}
