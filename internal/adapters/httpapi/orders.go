package httpapi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ordermesh/orderflow/internal/order"
	"github.com/ordermesh/orderflow/pkg/apperr"
	transhttp "github.com/ordermesh/orderflow/pkg/transport/http"
)

// batchResponse is the POST /orders/batch success envelope.
type batchResponse struct {
	Success      bool               `json:"success"`
	Total        int                `json:"total"`
	Processed    int                `json:"processed"`
	Failed       int                `json:"failed"`
	Batches      int                `json:"batches"`
	BatchResults []batchChunkResult `json:"batchResults"`
}

type batchChunkResult struct {
	BatchIndex int      `json:"batchIndex"`
	Processed  int      `json:"processed"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// postBatch runs the validated order sequence through the pipeline,
// primes the cache for every id now present in the store, and caches the
// final response (success or error) under the idempotency key attached
// by idempotencyGate.
func (h *Handler) postBatch(c *fiber.Ctx) error {
	orders, _ := c.Locals(localKeyValidatedOrders).([]order.Order)

	chunkSize, ok := order.ValidateBatchSize(nil, h.BatchSize)
	if !ok {
		status, body := transhttp.StatusAndBody(apperr.NewInternalError(fmt.Errorf("invalid configured batch size")))
		return h.cacheAndReturn(c, status, body)
	}

	defer func() {
		if r := recover(); r != nil {
			status, body := transhttp.StatusAndBody(apperr.NewInternalError(fmt.Errorf("%v", r)))
			_ = h.cacheAndReturn(c, status, body)
		}
	}()

	outcome := h.Pipeline.Run(orders, chunkSize)

	chunks := make([]batchChunkResult, len(outcome.BatchResults))
	for i, cr := range outcome.BatchResults {
		chunks[i] = batchChunkResult{BatchIndex: cr.ChunkIndex, Processed: cr.Processed, Failed: cr.Failed, Errors: cr.Errors}
	}

	for _, o := range orders {
		if stored, ok := h.Store.GetByID(o.ID); ok {
			h.Cache.Set(o.ID, stored, 0)
		}
	}

	return h.cacheAndReturn(c, fiber.StatusCreated, batchResponse{
		Success:      outcome.TotalFailed == 0,
		Total:        len(orders),
		Processed:    outcome.TotalProcessed,
		Failed:       outcome.TotalFailed,
		Batches:      len(chunks),
		BatchResults: chunks,
	})
}

// getOrder implements the read-through cache contract: cache hit sets
// X-Cache: HIT and X-Cache-Age; miss falls through to the store and
// primes the cache.
func (h *Handler) getOrder(c *fiber.Ctx) error {
	id := c.Params("id")

	if entry, ok := h.Cache.Get(id); ok {
		age, _ := h.Cache.AgeSeconds(id)
		c.Set("X-Cache", "HIT")
		c.Set("X-Cache-Age", fmt.Sprintf("%d", age))

		return transhttp.OK(c, entry.Order)
	}

	o, ok := h.Store.GetByID(id)
	if !ok {
		return transhttp.WithError(c, apperr.NewNotFoundError())
	}

	h.Cache.Set(id, o, 0)
	c.Set("X-Cache", "MISS")

	return transhttp.OK(c, o)
}

type updateStatusRequest struct {
	Status order.Status `json:"status" validate:"required"`
}

// putOrderStatus updates the store, then invalidate-then-primes the cache
// (preventing a concurrent reader from observing a stale entry after the
// store has moved forward), then publishes status_changed. The request
// body is decoded and struct-validated by WithBody before this handler
// ever runs; the remaining Status.IsValid check enforces the closed
// four-value enumeration, which a required-field tag alone can't express.
func (h *Handler) putOrderStatus(p any, c *fiber.Ctx) error {
	id := c.Params("id")

	body := p.(*updateStatusRequest)
	if !body.Status.IsValid() {
		return transhttp.WithError(c, apperr.NewValidationError("Invalid status"))
	}

	updated, ok := h.Store.UpdateStatus(id, body.Status)
	if !ok {
		return transhttp.WithError(c, apperr.NewNotFoundError())
	}

	h.Cache.Invalidate(id)
	h.Cache.Set(id, updated, 0)
	h.Bus.PublishStatusChanged(updated)

	return transhttp.OK(c, updated)
}

const heartbeatInterval = 30 * time.Second

// streamOrders implements GET /orders/stream: SSE headers, an initial
// comment, an EventBus subscription whose callback frames each event, and
// a heartbeat ticker, released together on client disconnect.
func (h *Handler) streamOrders(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	done := c.Context().Done()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if !writeSSEComment(w, "connected") {
			return
		}

		events := make(chan order.Event, 16)

		unsubscribe := h.Bus.Subscribe(func(e order.Event) error {
			select {
			case events <- e:
				return nil
			default:
				return fmt.Errorf("subscriber outbound buffer full")
			}
		})
		defer unsubscribe()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		streamEvents(w, events, heartbeat.C, done)
	})

	return nil
}

// streamEvents drains events onto w, framed as SSE, interleaved with
// heartbeat comments, until a write fails (client disconnected) or done
// fires (server-side cancellation). Split out from streamOrders so it can
// be driven directly against an in-memory writer in tests, without going
// through fasthttp's SetBodyStreamWriter plumbing.
func streamEvents(w *bufio.Writer, events <-chan order.Event, heartbeat <-chan time.Time, done <-chan struct{}) {
	for {
		select {
		case e := <-events:
			payload, err := json.Marshal(e)
			if err != nil {
				continue
			}

			if !writeSSEEvent(w, string(e.Kind), payload) {
				return
			}
		case <-heartbeat:
			if !writeSSEComment(w, "heartbeat") {
				return
			}
		case <-done:
			return
		}
	}
}

// writeSSEComment writes an SSE comment line (e.g. a heartbeat or the
// initial connect notice) and flushes it, reporting whether both
// succeeded.
func writeSSEComment(w *bufio.Writer, comment string) bool {
	if _, err := fmt.Fprintf(w, ": %s\n\n", comment); err != nil {
		return false
	}

	return w.Flush() == nil
}

// writeSSEEvent writes a framed "event: kind\ndata: payload\n\n" record and
// flushes it, reporting whether both succeeded.
func writeSSEEvent(w *bufio.Writer, kind string, payload []byte) bool {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", kind, payload); err != nil {
		return false
	}

	return w.Flush() == nil
}
