package bootstrap

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ordermesh/orderflow/internal/adapters/httpapi"
	"github.com/ordermesh/orderflow/internal/eventbus"
	"github.com/ordermesh/orderflow/internal/idempotency"
	"github.com/ordermesh/orderflow/internal/metrics"
	"github.com/ordermesh/orderflow/internal/order"
	"github.com/ordermesh/orderflow/internal/pipeline"
	"github.com/ordermesh/orderflow/internal/stress"
	orderflowapp "github.com/ordermesh/orderflow/pkg/app"
	"github.com/ordermesh/orderflow/pkg/mlog"
	transhttp "github.com/ordermesh/orderflow/pkg/transport/http"
)

// version is stamped at build time via -ldflags; defaulted for local runs.
var version = "dev"

// Service is the application glue: everything main.go needs to run the
// process lives behind this one struct.
type Service struct {
	*Server
	Logger mlog.Logger
}

// Run starts the application under a Launcher — today a single HTTP
// server App, kept general so a background worker has a home later.
func (svc *Service) Run() {
	orderflowapp.NewLauncher(
		orderflowapp.WithLogger(svc.Logger),
		orderflowapp.RunApp("HTTP Service", svc.Server),
	).Run()
}

// InitServers constructs every component, wires them into the Fiber app,
// and returns the Service ready to Run.
func InitServers() *Service {
	cfg := LoadConfig()

	logger := mlog.InitializeLogger(cfg.EnvName, cfg.LogLevel)

	store := order.NewStore()
	cache := order.NewCache(cfg.OrderCacheTTL(), logger)
	idem := idempotency.NewCache(cfg.IdempotencyTTL())
	bus := eventbus.New()
	p := pipeline.New(store, bus)
	harness := stress.New(p, bus)
	m := metrics.New()

	handler := httpapi.NewHandler(store, cache, idem, bus, p, harness, m, logger, int(cfg.BatchSize), version)

	fiberApp := fiber.New(fiber.Config{
		AppName:               ApplicationName,
		DisableStartupMessage: true,
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(transhttp.WithCorrelationID())
	fiberApp.Use(transhttp.WithHTTPLogging(transhttp.WithCustomLogger(logger)))
	fiberApp.Use(m.Middleware())

	handler.RegisterRoutes(fiberApp)

	server := NewServer(cfg, fiberApp, logger)

	return &Service{Server: server, Logger: logger}
}
