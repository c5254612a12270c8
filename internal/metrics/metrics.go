// Package metrics tracks the raw request-count and cumulative-latency
// counters exposed via GET /system/performance, wired as Fiber middleware
// so request timing is ambient, not something each handler computes by
// hand.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Counter holds monotone counters for request count and cumulative
// response latency, updated atomically so concurrent requests never race.
type Counter struct {
	requestCount      int64
	totalResponseTime int64 // nanoseconds
	startedAt         time.Time
}

// New builds a Counter whose uptime is measured from this call.
func New() *Counter {
	return &Counter{startedAt: time.Now()}
}

// Middleware stamps the request start time, runs the handler chain, and
// adds the elapsed duration to the cumulative total on the way out.
func (c *Counter) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()

		err := ctx.Next()

		atomic.AddInt64(&c.totalResponseTime, int64(time.Since(start)))
		atomic.AddInt64(&c.requestCount, 1)

		return err
	}
}

// Snapshot is the GET /system/performance response envelope.
type Snapshot struct {
	LatencyMs         int64       `json:"latencyMs"`
	SystemHealth      int         `json:"systemHealth"`
	RequestsPerSecond int         `json:"requestsPerSecond"`
	RequestCount      int64       `json:"requestCount"`
	AvgResponseTimeMs int64       `json:"avgResponseTimeMs"`
	UptimeSeconds     int64       `json:"uptime_s"`
	MemoryUsage       MemoryUsage `json:"memoryUsage"`
	Timestamp         int64       `json:"timestamp"`
}

// Snapshot reports the current counters. Request rate is not tracked over
// a window, so it is always reported as 0.
func (c *Counter) Snapshot(mem MemoryUsage, nowMillis int64) Snapshot {
	count := atomic.LoadInt64(&c.requestCount)
	total := atomic.LoadInt64(&c.totalResponseTime)

	var avgMs int64
	if count > 0 {
		avgMs = (total / count) / int64(time.Millisecond)
	}

	return Snapshot{
		LatencyMs:         avgMs,
		SystemHealth:      100,
		RequestsPerSecond: 0,
		RequestCount:      count,
		AvgResponseTimeMs: avgMs,
		UptimeSeconds:     int64(time.Since(c.startedAt).Seconds()),
		MemoryUsage:       mem,
		Timestamp:         nowMillis,
	}
}

// Reset zeroes every counter. Test-only.
func (c *Counter) Reset() {
	atomic.StoreInt64(&c.requestCount, 0)
	atomic.StoreInt64(&c.totalResponseTime, 0)
}
