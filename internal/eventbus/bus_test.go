package eventbus

import (
	"errors"
	"testing"

	"github.com/ordermesh/orderflow/internal/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleOrder(id string) order.Order {
	return order.Order{ID: id, Status: order.StatusPending, Amount: decimal.Zero, CreatedAt: 1, UpdatedAt: 1}
}

func TestPublishDeliversInRegistrationOrder(t *testing.T) {
	b := New()

	var received []string

	b.Subscribe(func(e order.Event) error {
		received = append(received, "first:"+e.Order.ID)
		return nil
	})
	b.Subscribe(func(e order.Event) error {
		received = append(received, "second:"+e.Order.ID)
		return nil
	})

	b.PublishCreated(sampleOrder("O1"))

	assert.Equal(t, []string{"first:O1", "second:O1"}, received)
}

func TestSubscriberRemovedAfterError(t *testing.T) {
	b := New()

	calls := 0
	b.Subscribe(func(order.Event) error {
		calls++
		return errors.New("boom")
	})

	assert.Equal(t, 1, b.ActiveCount())

	b.PublishCreated(sampleOrder("O1"))
	assert.Equal(t, 0, b.ActiveCount(), "a raising subscriber is dropped")

	b.PublishCreated(sampleOrder("O2"))
	assert.Equal(t, 1, calls, "a dropped subscriber is never invoked again")
}

func TestUnsubscribeDetaches(t *testing.T) {
	b := New()

	calls := 0
	unsubscribe := b.Subscribe(func(order.Event) error {
		calls++
		return nil
	})

	unsubscribe()
	assert.Equal(t, 0, b.ActiveCount())

	b.PublishCreated(sampleOrder("O1"))
	assert.Equal(t, 0, calls)
}

func TestClearAll(t *testing.T) {
	b := New()
	b.Subscribe(func(order.Event) error { return nil })
	b.Subscribe(func(order.Event) error { return nil })

	b.ClearAll()
	assert.Equal(t, 0, b.ActiveCount())
}

func TestPublishConvenienceMethodsTagKind(t *testing.T) {
	b := New()

	var kinds []order.EventKind
	b.Subscribe(func(e order.Event) error {
		kinds = append(kinds, e.Kind)
		return nil
	})

	o := sampleOrder("O1")
	b.PublishCreated(o)
	b.PublishUpdated(o)
	b.PublishStatusChanged(o)

	assert.Equal(t, []order.EventKind{order.EventCreated, order.EventUpdated, order.EventStatusChanged}, kinds)
}
