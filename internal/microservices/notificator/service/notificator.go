package service

import (
	"context"
	"encoding/json"

	"github.com/juju/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/domain"
)

const (
	consumerTag = "notificator"
	prefetch    = 10
)

// Consumer is satisfied by *rabbitmq.Client.
type Consumer interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error)
}

type NotificatorService struct {
	rmq Consumer
	log *logger.Logger
}

func NewNotificatorService(rmq Consumer) *NotificatorService {
	return &NotificatorService{rmq: rmq, log: logger.New("notification-subscriber")}
}

// Notify consumes the notification queue until ctx is done or the broker
// closes the channel.
func (ns *NotificatorService) Notify(ctx context.Context) error {
	deliveries, err := ns.rmq.Consume(rabbitmq.QueueNotifications, consumerTag, prefetch)
	if err != nil {
		return errors.Annotate(err, "consume notifications")
	}
	ns.log.Info("subscriber_started", map[string]any{"queue": rabbitmq.QueueNotifications})

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("notification channel closed")
			}
			ns.Handle(d)
		}
	}
}

// Handle logs one notification. Bodies that are not events are dead
// lettered instead of requeued.
func (ns *NotificatorService) Handle(d amqp.Delivery) {
	var ev domain.OrderEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil || ev.EventType == "" {
		if err == nil {
			err = errors.New("missing event_type")
		}
		ns.log.Error("invalid_notification", err, map[string]any{"message_id": d.MessageId})
		if nerr := d.Nack(false, false); nerr != nil {
			ns.log.Error("nack_failed", nerr, nil)
		}
		return
	}

	ns.log.Info("notification_received", map[string]any{
		"event_type":    ev.EventType,
		"order_id":      ev.OrderID,
		"stage":         ev.Stage,
		"customer_name": ev.CustomerName,
		"message_id":    d.MessageId,
	})
	if err := d.Ack(false); err != nil {
		ns.log.Error("ack_failed", err, nil)
	}
}
