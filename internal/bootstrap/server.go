package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	orderflowapp "github.com/ordermesh/orderflow/pkg/app"
	"github.com/ordermesh/orderflow/pkg/mlog"
)

// shutdownGrace bounds how long the server waits for in-flight requests
// (including open SSE streams) to drain once a shutdown signal arrives.
const shutdownGrace = 10 * time.Second

// Server is the HTTP app.App: it runs the Fiber server under the Launcher
// and drains it on SIGINT/SIGTERM.
type Server struct {
	app           *fiber.App
	serverAddress string
	logger        mlog.Logger
}

// NewServer builds a Server bound to cfg's address.
func NewServer(cfg *Config, fiberApp *fiber.App, logger mlog.Logger) *Server {
	return &Server{app: fiberApp, serverAddress: cfg.ServerAddress(), logger: logger}
}

// ServerAddress returns the address the server listens on.
func (s *Server) ServerAddress() string {
	return s.serverAddress
}

// Run starts the HTTP server and blocks until it receives SIGINT/SIGTERM,
// then drains in-flight requests before returning.
func (s *Server) Run(l *orderflowapp.Launcher) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Infof("listening on %s", s.serverAddress)

		if err := s.app.Listen(s.serverAddress); err != nil {
			serverErrors <- errors.Wrap(err, "failed to run the server")
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case sig := <-stop:
		s.logger.Infof("received signal %s, shutting down", sig)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := s.app.ShutdownWithContext(ctx); err != nil {
			return errors.Wrap(err, "graceful shutdown failed")
		}

		return nil
	}
}
