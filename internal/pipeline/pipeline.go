// Package pipeline implements BatchPipeline: chunk an incoming order batch,
// process chunks strictly sequentially, validate and insert each order,
// publish a created event per success, and aggregate per-chunk results.
package pipeline

import (
	"fmt"

	"github.com/ordermesh/orderflow/internal/eventbus"
	"github.com/ordermesh/orderflow/internal/order"
)

// ChunkResult is one chunk's outcome.
type ChunkResult struct {
	ChunkIndex int      `json:"chunkIndex"`
	Processed  int      `json:"processed"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// Result is the aggregated outcome of one BatchPipeline.Run call.
type Result struct {
	TotalProcessed int           `json:"totalProcessed"`
	TotalFailed    int           `json:"totalFailed"`
	BatchResults   []ChunkResult `json:"batchResults"`
}

// Pipeline wires the Validator against the Store and EventBus.
type Pipeline struct {
	store *order.Store
	bus   *eventbus.Bus
}

// New builds a Pipeline over store and bus.
func New(store *order.Store, bus *eventbus.Bus) *Pipeline {
	return &Pipeline{store: store, bus: bus}
}

// Run splits orders into chunks of chunkSize (the last chunk may be
// short), processes chunks strictly sequentially in input order, and
// returns the aggregated Result. chunkSize must already be validated by
// the caller (order.ValidateBatchSize).
func (p *Pipeline) Run(orders []order.Order, chunkSize int) Result {
	var (
		result     Result
		chunkIndex int
	)

	for start := 0; start < len(orders); start += chunkSize {
		end := start + chunkSize
		if end > len(orders) {
			end = len(orders)
		}

		chunk := p.processChunk(chunkIndex, orders[start:end])
		result.BatchResults = append(result.BatchResults, chunk)
		result.TotalProcessed += chunk.Processed
		result.TotalFailed += chunk.Failed

		chunkIndex++
	}

	return result
}

// processChunk validates and inserts each order in the chunk, in order,
// recovering from any panic raised by a single item so one bad order
// never aborts the rest of the chunk.
func (p *Pipeline) processChunk(chunkIndex int, chunk []order.Order) (result ChunkResult) {
	result.ChunkIndex = chunkIndex

	for _, o := range chunk {
		if errMsg := p.processOne(o); errMsg != "" {
			result.Failed++
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		result.Processed++
	}

	return result
}

func (p *Pipeline) processOne(o order.Order) (errMsg string) {
	defer func() {
		if r := recover(); r != nil {
			errMsg = fmt.Sprintf("Order %s: %v", o.ID, r)
		}
	}()

	if !order.ValidateOrder(o) {
		return fmt.Sprintf("Order %s: Invalid order data", o.ID)
	}

	p.store.BulkInsert([]order.Order{o})
	p.bus.PublishCreated(o)

	return ""
}
