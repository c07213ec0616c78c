package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/domain"
	"coffee-shop/internal/format"
)

var ErrMalformed = errors.New("malformed table status event")

// Consumer is satisfied by *mq.Client.
type Consumer interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, func(), error)
}

type NotificatorService struct {
	consumer Consumer
	lg       *logger.Logger
	queue    string

	// Sink receives the human-readable line for each event.
	Sink func(msg string)
}

func NewNotificatorService(c Consumer, queue string, lg *logger.Logger) *NotificatorService {
	if lg == nil {
		lg = logger.Nop()
	}
	return &NotificatorService{consumer: c, lg: lg, queue: queue}
}

// Run consumes until ctx is done or the broker closes the delivery channel.
func (ns *NotificatorService) Run(ctx context.Context) error {
	msgs, stop, err := ns.consumer.Consume(ns.queue, "notificator", 10)
	if err != nil {
		return fmt.Errorf("consume %s: %w", ns.queue, err)
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			ns.lg.Info("graceful_shutdown", nil)
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			ns.handle(d)
		}
	}
}

func (ns *NotificatorService) handle(d amqp.Delivery) {
	ev, err := Decode(d.Body)
	if err != nil {
		ns.lg.Error("notification_rejected", err, map[string]any{"message_id": d.MessageId})
		_ = d.Nack(false, false)
		return
	}
	msg := Describe(ev)
	ns.lg.Info("notification_received", map[string]any{
		"table_id":   ev.TableID,
		"old_status": ev.OldStatus,
		"new_status": ev.NewStatus,
		"changed_by": ev.ChangedBy,
	})
	if ns.Sink != nil {
		ns.Sink(msg)
	}
	_ = d.Ack(false)
}

func Decode(body []byte) (domain.TableStatusEvent, error) {
	var ev domain.TableStatusEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ev.TableID <= 0 {
		return ev, fmt.Errorf("%w: missing table_id", ErrMalformed)
	}
	if _, err := domain.ParseTableStatus(string(ev.NewStatus)); err != nil {
		return ev, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return ev, nil
}

func Describe(ev domain.TableStatusEvent) string {
	from := string(ev.OldStatus)
	if from == "" {
		from = "?"
	}
	return fmt.Sprintf("Bàn %d: %s → %s (%s, %s)",
		ev.TableID, from, ev.NewStatus, ev.ChangedBy, format.Date(ev.Timestamp))
}
