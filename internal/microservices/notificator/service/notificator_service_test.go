package service

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffee-shop/internal/domain"
)

type fakeAck struct {
	acks, nacks int
	requeue     bool
}

func (a *fakeAck) Ack(uint64, bool) error { a.acks++; return nil }
func (a *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacks++
	a.requeue = requeue
	return nil
}
func (a *fakeAck) Reject(uint64, bool) error { return nil }

type fakeConsumer struct {
	ch      chan amqp.Delivery
	stopped bool
	err     error
}

func (c *fakeConsumer) Consume(string, string, int) (<-chan amqp.Delivery, func(), error) {
	if c.err != nil {
		return nil, nil, c.err
	}
	return c.ch, func() { c.stopped = true }, nil
}

func TestDecode(t *testing.T) {
	ev, err := Decode([]byte(`{"table_id":3,"old_status":"Available","new_status":"Occupied","changed_by":"an"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOccupied, ev.NewStatus)

	for _, body := range []string{`nope`, `{"new_status":"Occupied"}`, `{"table_id":1,"new_status":"dirty"}`} {
		_, err := Decode([]byte(body))
		assert.ErrorIs(t, err, ErrMalformed, body)
	}
}

func TestDescribe(t *testing.T) {
	msg := Describe(domain.TableStatusEvent{
		TableID: 5, OldStatus: domain.StatusAvailable, NewStatus: domain.StatusReserved,
		ChangedBy: "quan-ly", Timestamp: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, "Bàn 5: Available → Reserved (quan-ly, 2/5/2024)", msg)
}

func TestRunAcksAndRejects(t *testing.T) {
	ack := &fakeAck{}
	c := &fakeConsumer{ch: make(chan amqp.Delivery, 2)}
	c.ch <- amqp.Delivery{Acknowledger: ack, Body: []byte(`{"table_id":1,"new_status":"Occupied"}`)}
	c.ch <- amqp.Delivery{Acknowledger: ack, Body: []byte(`garbage`)}
	close(c.ch)

	var lines []string
	ns := NewNotificatorService(c, "q", nil)
	ns.Sink = func(s string) { lines = append(lines, s) }

	err := ns.Run(context.Background())
	assert.Error(t, err, "closed channel ends the loop")
	assert.True(t, c.stopped)
	assert.Equal(t, 1, ack.acks)
	assert.Equal(t, 1, ack.nacks)
	assert.False(t, ack.requeue)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Bàn 1")
}

func TestRunStopsOnCancel(t *testing.T) {
	c := &fakeConsumer{ch: make(chan amqp.Delivery)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, NewNotificatorService(c, "q", nil).Run(ctx))
	assert.True(t, c.stopped)
}

func TestRunConsumeError(t *testing.T) {
	c := &fakeConsumer{err: errors.New("no channel")}
	assert.ErrorContains(t, NewNotificatorService(c, "q", nil).Run(context.Background()), "no channel")
}
