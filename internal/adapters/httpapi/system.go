package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ordermesh/orderflow/internal/metrics"
	"github.com/ordermesh/orderflow/internal/order"
)

// systemHealth implements GET /api/system/health.
func (h *Handler) systemHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": order.NowMillis(),
	})
}

// systemMemory implements GET /api/system/memory, reporting byte-denominated
// process memory stats.
func (h *Handler) systemMemory(c *fiber.Ctx) error {
	return c.JSON(metrics.CurrentMemoryUsage())
}

// systemPerformance implements GET /api/system/performance.
func (h *Handler) systemPerformance(c *fiber.Ctx) error {
	snap := h.Metrics.Snapshot(metrics.CurrentMemoryUsage(), order.NowMillis())
	return c.JSON(snap)
}

// postStressTest implements POST /orders/stress-test, consuming the
// config validateStressConfig attached to the request.
func (h *Handler) postStressTest(c *fiber.Ctx) error {
	cfg, _ := c.Locals("stressConfig").(order.StressTestConfig)

	result := h.Stress.Run(cfg)

	return c.JSON(result)
}
