package mq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	TablesExchange     = "tables_fanout"
	NotificationsQueue = "table_notifications.q"
	DeadLetterExchange = "dlx"
	DeadLetterQueue    = "dlq"
)

// confirmPublisher is the part of *amqp.Channel used by Publish.
type confirmPublisher interface {
	GetNextPublishSeqNo() uint64
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	pub  confirmPublisher

	acks <-chan amqp.Confirmation
	mu   sync.Mutex // publishes are serialized while waiting for confirms
}

func Dial(url string, useTLS bool) (*Client, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	if useTLS {
		conn, err = amqp.DialTLS(url, &tls.Config{MinVersion: tls.VersionTLS12})
	} else {
		conn, err = amqp.Dial(url)
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
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 64))
	return &Client{conn: conn, ch: ch, pub: ch, acks: acks}, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) Ping() error {
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareAll is idempotent.
func (c *Client) DeclareAll() error {
	if c == nil || c.ch == nil {
		return fmt.Errorf("nil channel")
	}
	if err := c.ch.ExchangeDeclare(TablesExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", TablesExchange, err)
	}
	if err := c.ch.ExchangeDeclare(DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", DeadLetterExchange, err)
	}
	if _, err := c.ch.QueueDeclare(NotificationsQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    DeadLetterExchange,
		"x-dead-letter-routing-key": DeadLetterQueue,
	}); err != nil {
		return fmt.Errorf("declare %s: %w", NotificationsQueue, err)
	}
	if _, err := c.ch.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", DeadLetterQueue, err)
	}
	if err := c.ch.QueueBind(DeadLetterQueue, DeadLetterQueue, DeadLetterExchange, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(NotificationsQueue, "", TablesExchange, false, nil)
}

// Publish sends a persistent JSON message and waits for the broker ack.
// Confirmations left over from publishes whose context ended first carry
// older delivery tags and are skipped.
func (c *Client) Publish(ctx context.Context, exchange, key, correlationID string, body []byte, headers amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tag := c.pub.GetNextPublishSeqNo()
	if err := c.pub.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     uuid.NewString(),
		CorrelationId: correlationID,
		Timestamp:     time.Now().UTC(),
		Headers:       headers,
		Body:          body,
	}); err != nil {
		return err
	}

	for {
		select {
		case conf, ok := <-c.acks:
			if !ok {
				return errors.New("confirm channel closed")
			}
			if conf.DeliveryTag < tag {
				continue
			}
			if conf.DeliveryTag > tag {
				return fmt.Errorf("confirm for delivery %d overtook %d", conf.DeliveryTag, tag)
			}
			if conf.Ack {
				return nil
			}
			return errors.New("publish NACK from broker")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Consume opens a dedicated channel so consumer flow does not share the confirm channel.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, func(), error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, nil, err
	}
	msgs, err := ch.Consume(queue, consumer, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, nil, err
	}
	stop := func() {
		_ = ch.Cancel(consumer, false)
		_ = ch.Close()
	}
	return msgs, stop, nil
}
