// Package stress implements StressHarness: synthesize N orders and push
// them through the BatchPipeline under a configured chunk size, reporting
// throughput, latency, and memory.
package stress

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ordermesh/orderflow/internal/eventbus"
	"github.com/ordermesh/orderflow/internal/metrics"
	"github.com/ordermesh/orderflow/internal/order"
	"github.com/ordermesh/orderflow/internal/pipeline"
	"github.com/shopspring/decimal"
)

// Result is the POST /orders/stress-test response envelope.
type Result struct {
	Success           bool                  `json:"success"`
	TotalOrders       int                   `json:"totalOrders"`
	Processed         int                   `json:"processed"`
	Failed            int                   `json:"failed"`
	DurationMs        int64                 `json:"duration_ms"`
	OrdersPerSecond   float64               `json:"ordersPerSecond"`
	AverageLatencyMs  float64               `json:"averageLatency_ms"`
	MemoryUsage       metrics.MemoryUsageMB `json:"memoryUsage"`
	ActiveConnections int                   `json:"activeConnections"`
	Timestamp         int64                 `json:"timestamp"`
}

// Harness generates synthetic orders and feeds them through a Pipeline.
type Harness struct {
	pipeline *pipeline.Pipeline
	bus      *eventbus.Bus
}

// New builds a Harness over the given pipeline and event bus (the bus is
// consulted only for ActiveConnections in the result envelope).
func New(p *pipeline.Pipeline, bus *eventbus.Bus) *Harness {
	return &Harness{pipeline: p, bus: bus}
}

// Run synthesizes cfg.OrderCount orders with randomized status/amount and
// unique ids, runs them through the pipeline in chunks of cfg.BatchSize,
// and returns the resulting Result. A panic escaping the pipeline run
// (Pipeline itself does not raise one, but this is a defensive boundary
// in case that ever changes) is reported as 0 processed / all failed.
func (h *Harness) Run(cfg order.StressTestConfig) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Success:     false,
				TotalOrders: cfg.OrderCount,
				Processed:   0,
				Failed:      cfg.OrderCount,
				Timestamp:   order.NowMillis(),
			}
		}
	}()

	orders := synthesize(cfg.OrderCount)

	start := time.Now()
	outcome := h.pipeline.Run(orders, cfg.BatchSize)
	duration := time.Since(start)

	batchCount := len(outcome.BatchResults)
	if batchCount == 0 {
		batchCount = 1
	}

	durationMs := duration.Milliseconds()

	var ordersPerSecond float64
	if duration > 0 {
		ordersPerSecond = float64(cfg.OrderCount) / duration.Seconds()
	}

	return Result{
		Success:           outcome.TotalFailed == 0,
		TotalOrders:       cfg.OrderCount,
		Processed:         outcome.TotalProcessed,
		Failed:            outcome.TotalFailed,
		DurationMs:        durationMs,
		OrdersPerSecond:   ordersPerSecond,
		AverageLatencyMs:  float64(durationMs) / float64(batchCount),
		MemoryUsage:       metrics.CurrentMemoryUsage().InMB(),
		ActiveConnections: h.bus.ActiveCount(),
		Timestamp:         order.NowMillis(),
	}
}

var statusPool = []order.Status{order.StatusPending, order.StatusProcessing, order.StatusCompleted, order.StatusFailed}

func synthesize(count int) []order.Order {
	now := order.NowMillis()
	orders := make([]order.Order, count)

	for i := 0; i < count; i++ {
		orders[i] = order.Order{
			ID:        fmt.Sprintf("stress-%d-%d", now, i),
			Status:    statusPool[rand.Intn(len(statusPool))],
			Amount:    decimal.NewFromFloat(rand.Float64() * 1000),
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	return orders
}
