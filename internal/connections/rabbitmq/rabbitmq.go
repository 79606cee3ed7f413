package rabbitmq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-ordering/internal/config"
)

const (
	ExchangeOrders        = "orders_topic"
	ExchangeNotifications = "notifications_fanout"
	ExchangeDeadLetter    = "dlx"

	QueueNotifications = "notifications.q"
	QueueDeadLetter    = "dlq"
)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation
	mu   sync.Mutex // confirms arrive in publish order, so publishes are serialised
}

// Message is one outgoing publishing.
type Message struct {
	Body          []byte
	ContentType   string
	MessageID     string
	CorrelationID string
	Headers       amqp.Table
	Persistent    bool
}

func (c *Client) Channel() *amqp.Channel { return c.ch }

func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func URL(cfg config.RabbitMQConfig) string {
	vhost := cfg.VHost
	if vhost == "" {
		vhost = "/"
	}
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + vhost,
	}
	if cfg.UseTLS {
		u.Scheme = "amqps"
	}
	return u.String()
}

// Dial connects and puts the channel into confirm mode.
func Dial(cfg config.RabbitMQConfig) (*Client, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	if cfg.UseTLS {
		conn, err = amqp.DialTLS(URL(cfg), &tls.Config{MinVersion: tls.VersionTLS12})
	} else {
		conn, err = amqp.Dial(URL(cfg))
	}
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &Client{conn: conn, ch: ch, acks: acks}, nil
}

func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareTopology declares the exchanges and the notification queue.
func (c *Client) DeclareTopology() error {
	if err := c.ch.ExchangeDeclare(ExchangeOrders, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.ExchangeDeclare(ExchangeNotifications, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.ExchangeDeclare(ExchangeDeadLetter, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(QueueDeadLetter, true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.QueueBind(QueueDeadLetter, QueueDeadLetter, ExchangeDeadLetter, false, nil); err != nil {
		return err
	}
	_, err := c.ch.QueueDeclare(QueueNotifications, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    ExchangeDeadLetter,
		"x-dead-letter-routing-key": QueueDeadLetter,
	})
	if err != nil {
		return err
	}
	return c.ch.QueueBind(QueueNotifications, "", ExchangeNotifications, false, nil)
}

// Publish sends m and waits for the broker ack.
func (c *Client) Publish(ctx context.Context, exchange, key string, m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	mode := amqp.Transient
	if m.Persistent {
		mode = amqp.Persistent
	}

	if err := c.ch.PublishWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode:  mode,
			ContentType:   m.ContentType,
			MessageId:     m.MessageID,
			CorrelationId: m.CorrelationID,
			Timestamp:     time.Now().UTC(),
			Headers:       m.Headers,
			Body:          m.Body,
		},
	); err != nil {
		return err
	}

	select {
	case conf := <-c.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}
