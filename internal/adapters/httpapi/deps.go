// Package httpapi binds OrderStore, caches, EventBus, BatchPipeline,
// StressHarness, and MetricsCounter to the eight /api endpoints plus the
// root health/version endpoints.
package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ordermesh/orderflow/internal/eventbus"
	"github.com/ordermesh/orderflow/internal/idempotency"
	"github.com/ordermesh/orderflow/internal/metrics"
	"github.com/ordermesh/orderflow/internal/order"
	"github.com/ordermesh/orderflow/internal/pipeline"
	"github.com/ordermesh/orderflow/internal/stress"
	"github.com/ordermesh/orderflow/pkg/mlog"
	transhttp "github.com/ordermesh/orderflow/pkg/transport/http"
)

// Handler holds every component the HTTP surface binds together.
type Handler struct {
	Store       *order.Store
	Cache       *order.Cache
	Idempotency *idempotency.Cache
	Bus         *eventbus.Bus
	Pipeline    *pipeline.Pipeline
	Stress      *stress.Harness
	Metrics     *metrics.Counter
	Logger      mlog.Logger
	BatchSize   int
	Version     string
}

// NewHandler wires Handler from its already-constructed components.
func NewHandler(
	store *order.Store,
	cache *order.Cache,
	idem *idempotency.Cache,
	bus *eventbus.Bus,
	p *pipeline.Pipeline,
	harness *stress.Harness,
	m *metrics.Counter,
	logger mlog.Logger,
	batchSize int,
	version string,
) *Handler {
	if logger == nil {
		logger = &mlog.NoneLogger{}
	}

	return &Handler{
		Store:       store,
		Cache:       cache,
		Idempotency: idem,
		Bus:         bus,
		Pipeline:    p,
		Stress:      harness,
		Metrics:     m,
		Logger:      logger,
		BatchSize:   batchSize,
		Version:     version,
	}
}

// RegisterRoutes mounts the root operational endpoints and the /api
// order/system surface onto app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", transhttp.Health)
	app.Get("/version", transhttp.Version(h.Version))

	api := app.Group("/api")

	orders := api.Group("/orders")
	orders.Post("/batch", h.idempotencyGate, h.validateBatch, h.postBatch)
	orders.Get("/stream", h.streamOrders)
	orders.Get("/:id", h.validateOrderID, h.getOrder)
	orders.Put("/:id/status", h.validateOrderID, transhttp.WithBody(&updateStatusRequest{}, h.putOrderStatus))
	orders.Post("/stress-test", h.validateStressConfig, h.postStressTest)

	system := api.Group("/system")
	system.Get("/health", h.systemHealth)
	system.Get("/memory", h.systemMemory)
	system.Get("/performance", h.systemPerformance)
}
