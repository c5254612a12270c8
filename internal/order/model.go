// Package order holds the Order record, its authoritative store, the
// read-through cache in front of that store, and the pure validators that
// gate both.
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the closed four-value order lifecycle enumeration.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// ValidStatuses lists every value Status may take.
var ValidStatuses = []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed}

// IsValid reports whether s is one of the four recognized statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

func init() {
	// Encode Amount as a bare JSON number rather than shopspring's default
	// quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

// Order is a customer purchase record. CreatedAt/UpdatedAt are epoch
// milliseconds, not time.Time, so they round-trip on the wire exactly as
// the client supplies them.
type Order struct {
	ID        string          `json:"id"`
	Status    Status          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
}

// NowMillis returns the current time as epoch milliseconds, the unit every
// Order timestamp field and event timestamp is carried in.
func NowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

// EventKind tags the three shapes an OrderEvent can take.
type EventKind string

const (
	EventCreated       EventKind = "order.created"
	EventUpdated       EventKind = "order.updated"
	EventStatusChanged EventKind = "order.status_changed"
)

// Event is the tagged payload delivered to every EventBus subscriber.
type Event struct {
	Kind      EventKind `json:"kind"`
	Order     Order     `json:"order"`
	Timestamp int64     `json:"timestamp"`
}
