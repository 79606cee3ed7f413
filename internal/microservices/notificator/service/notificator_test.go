package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/domain"
)

type fakeAck struct {
	acked, nacked []uint64
	requeue       bool
}

func (f *fakeAck) Ack(tag uint64, _ bool) error {
	f.acked = append(f.acked, tag)
	return nil
}

func (f *fakeAck) Nack(tag uint64, _ bool, requeue bool) error {
	f.nacked = append(f.nacked, tag)
	f.requeue = requeue
	return nil
}

func (f *fakeAck) Reject(tag uint64, requeue bool) error { return f.Nack(tag, false, requeue) }

type fakeConsumer struct{ ch chan amqp.Delivery }

func (f *fakeConsumer) Consume(string, string, int) (<-chan amqp.Delivery, error) { return f.ch, nil }

func eventBody(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(domain.OrderEvent{EventType: domain.EventOrderPaid, OrderID: "ORD001", Stage: domain.StagePaid})
	require.NoError(t, err)
	return b
}

func TestHandleAcksEvents(t *testing.T) {
	ack := &fakeAck{}
	ns := NewNotificatorService(nil)

	ns.Handle(amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: eventBody(t)})
	ns.Handle(amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("{not json")})
	ns.Handle(amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte(`{"order_id":"ORD002"}`)})

	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2, 3}, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestNotifyStopsWhenChannelCloses(t *testing.T) {
	ack := &fakeAck{}
	ch := make(chan amqp.Delivery, 2)
	ch <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: eventBody(t)}
	close(ch)

	err := NewNotificatorService(&fakeConsumer{ch: ch}).Notify(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []uint64{7}, ack.acked)
}

func TestNotifyStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewNotificatorService(&fakeConsumer{ch: make(chan amqp.Delivery)}).Notify(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Notify did not return")
	}
}
