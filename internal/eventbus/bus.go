// Package eventbus fans out order lifecycle events to live subscribers
// (SSE connections in practice): synchronous delivery in registration
// order, with a subscriber dropped the first time its callback errors.
package eventbus

import (
	"sync"

	"github.com/ordermesh/orderflow/internal/order"
)

// Callback receives one published event. A callback that returns an error
// is treated as a failed delivery and the subscriber is dropped.
type Callback func(order.Event) error

// Unsubscribe detaches a subscriber registered via Subscribe. It is the
// only way to detach — Bus never exposes subscriber ids.
type Unsubscribe func()

type subscriber struct {
	id       uint64
	callback Callback
}

// Bus fans out OrderEvents to N subscribers, in registration order,
// synchronously with the publishing call. There is no internal queue: a
// slow subscriber slows the publisher.
type Bus struct {
	mu          sync.Mutex
	subscribers []*subscriber
	nextID      uint64
}

// New builds an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers callback and returns a handle to detach it. Returning
// the handle is the only way to unsubscribe.
func (b *Bus) Subscribe(callback Callback) Unsubscribe {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subscribers = append(b.subscribers, &subscriber{id: id, callback: callback})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		for i, s := range b.subscribers {
			if s.id == id {
				b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers event to every live subscriber in registration order.
// A subscriber whose callback errors is removed from the live set;
// iteration continues with the remaining subscribers. No event is
// re-delivered.
func (b *Bus) Publish(event order.Event) {
	b.mu.Lock()
	snapshot := make([]*subscriber, len(b.subscribers))
	copy(snapshot, b.subscribers)
	b.mu.Unlock()

	var failed []uint64

	for _, s := range snapshot {
		if err := s.callback(event); err != nil {
			failed = append(failed, s.id)
		}
	}

	if len(failed) == 0 {
		return
	}

	b.mu.Lock()
	for _, id := range failed {
		for i, s := range b.subscribers {
			if s.id == id {
				b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
				break
			}
		}
	}
	b.mu.Unlock()
}

// ActiveCount returns the current live subscriber count.
func (b *Bus) ActiveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subscribers)
}

// ClearAll removes every subscriber. Test-only.
func (b *Bus) ClearAll() {
	b.mu.Lock()
	b.subscribers = nil
	b.mu.Unlock()
}

// PublishCreated stamps and publishes an order.created event.
func (b *Bus) PublishCreated(o order.Order) {
	b.Publish(order.Event{Kind: order.EventCreated, Order: o, Timestamp: order.NowMillis()})
}

// PublishUpdated stamps and publishes an order.updated event.
func (b *Bus) PublishUpdated(o order.Order) {
	b.Publish(order.Event{Kind: order.EventUpdated, Order: o, Timestamp: order.NowMillis()})
}

// PublishStatusChanged stamps and publishes an order.status_changed event.
func (b *Bus) PublishStatusChanged(o order.Order) {
	b.Publish(order.Event{Kind: order.EventStatusChanged, Order: o, Timestamp: order.NowMillis()})
}
