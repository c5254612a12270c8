// Command orderflow runs the order-processing network service: batch
// ingest, per-order read/mutation endpoints, SSE event fan-out, and the
// stress-test harness, all behind a single Fiber HTTP server.
package main

import (
	"github.com/ordermesh/orderflow/internal/bootstrap"
)

func main() {
	svc := bootstrap.InitServers()

	defer func() {
		if err := svc.Logger.Sync(); err != nil {
			svc.Logger.Errorf("failed to sync logger: %s", err)
		}
	}()

	svc.Run()
}
