package httpapi

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ordermesh/orderflow/internal/eventbus"
	"github.com/ordermesh/orderflow/internal/idempotency"
	"github.com/ordermesh/orderflow/internal/metrics"
	"github.com/ordermesh/orderflow/internal/order"
	"github.com/ordermesh/orderflow/internal/pipeline"
	"github.com/ordermesh/orderflow/internal/stress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() (*fiber.App, *Handler) {
	store := order.NewStore()
	cache := order.NewCache(0, nil)
	idem := idempotency.NewCache(0)
	bus := eventbus.New()
	p := pipeline.New(store, bus)
	harness := stress.New(p, bus)
	m := metrics.New()

	h := NewHandler(store, cache, idem, bus, p, harness, m, nil, 10, "test")

	app := fiber.New()
	h.RegisterRoutes(app)

	return app, h
}

func doJSON(t *testing.T, app *fiber.App, method, path string, headers map[string]string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestBatchSucceedsWithValidOrders(t *testing.T) {
	app, _ := newTestApp()

	body := []map[string]any{
		{"id": "O1", "status": "PENDING", "amount": 10, "createdAt": 1, "updatedAt": 1},
		{"id": "O2", "status": "PENDING", "amount": 20, "createdAt": 1, "updatedAt": 1},
	}

	resp := doJSON(t, app, http.MethodPost, "/api/orders/batch", map[string]string{"Idempotency-Key": "abc-123"}, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out batchResponse
	decodeJSON(t, resp, &out)

	assert.True(t, out.Success)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 2, out.Processed)
	assert.Equal(t, 0, out.Failed)
	assert.Equal(t, 1, out.Batches)
	assert.Equal(t, 2, out.BatchResults[0].Processed)
}

func TestBatchReplayReturnsCachedResponse(t *testing.T) {
	app, h := newTestApp()

	body := []map[string]any{
		{"id": "O1", "status": "PENDING", "amount": 10, "createdAt": 1, "updatedAt": 1},
	}

	headers := map[string]string{"Idempotency-Key": "replay-key"}

	first := doJSON(t, app, http.MethodPost, "/api/orders/batch", headers, body)
	var firstBody batchResponse
	decodeJSON(t, first, &firstBody)

	created := 0
	h.Bus.Subscribe(func(order.Event) error {
		created++
		return nil
	})

	second := doJSON(t, app, http.MethodPost, "/api/orders/batch", headers, body)
	var secondBody batchResponse
	decodeJSON(t, second, &secondBody)

	assert.Equal(t, first.StatusCode, second.StatusCode)
	assert.Equal(t, firstBody, secondBody)
	assert.Len(t, h.Store.GetAll(), 1, "replay must not add orders")
	assert.Equal(t, 0, created, "replay must not re-run the pipeline")
}

func TestBatchReportsPerOrderFailures(t *testing.T) {
	app, _ := newTestApp()

	body := []map[string]any{
		{"id": "A", "status": "PENDING", "amount": 1, "createdAt": 1, "updatedAt": 1},
		{"id": "B", "status": "PENDING", "amount": -1, "createdAt": 1, "updatedAt": 1},
		{"id": "C", "status": "PENDING", "amount": 2, "createdAt": 1, "updatedAt": 1},
	}

	resp := doJSON(t, app, http.MethodPost, "/api/orders/batch", map[string]string{"Idempotency-Key": "mixed-key"}, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out batchResponse
	decodeJSON(t, resp, &out)

	assert.Equal(t, 2, out.Processed)
	assert.Equal(t, 1, out.Failed)
	assert.Contains(t, out.BatchResults[0].Errors[0], "Order B")
}

func TestOrderCacheHitAfterBatchInsertThenInvalidatesOnStatusUpdate(t *testing.T) {
	app, _ := newTestApp()

	body := []map[string]any{{"id": "O1", "status": "PENDING", "amount": 10, "createdAt": 1, "updatedAt": 1}}
	doJSON(t, app, http.MethodPost, "/api/orders/batch", map[string]string{"Idempotency-Key": "s4-key"}, body)

	first := doJSON(t, app, http.MethodGet, "/api/orders/O1", nil, nil)
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "HIT", first.Header.Get("X-Cache"), "cache was primed by cache-after-batch")

	status := doJSON(t, app, http.MethodPut, "/api/orders/O1/status", nil, map[string]string{"status": "COMPLETED"})
	assert.Equal(t, http.StatusOK, status.StatusCode)

	var updated order.Order
	decodeJSON(t, status, &updated)
	assert.Equal(t, order.StatusCompleted, updated.Status)

	after := doJSON(t, app, http.MethodGet, "/api/orders/O1", nil, nil)
	var afterOrder order.Order
	decodeJSON(t, after, &afterOrder)
	assert.Equal(t, order.StatusCompleted, afterOrder.Status)
}

func TestBatchRejectsOversizeRequest(t *testing.T) {
	app, _ := newTestApp()

	orders := make([]map[string]any, 1001)
	for i := range orders {
		orders[i] = map[string]any{"id": "O", "status": "PENDING", "amount": 1, "createdAt": 1, "updatedAt": 1}
	}

	resp := doJSON(t, app, http.MethodPost, "/api/orders/batch", map[string]string{"Idempotency-Key": "s5-key"}, orders)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	var out map[string]string
	decodeJSON(t, resp, &out)
	assert.Equal(t, "Maximum 1000 orders allowed per request", out["message"])

	retry := doJSON(t, app, http.MethodPost, "/api/orders/batch", map[string]string{"Idempotency-Key": "s5-key"}, orders)
	assert.Equal(t, http.StatusRequestEntityTooLarge, retry.StatusCode)
}

func TestMissingIdempotencyKeyRejected(t *testing.T) {
	app, _ := newTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/orders/batch", nil, []map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	decodeJSON(t, resp, &out)
	assert.Equal(t, "Idempotency-Key header is required", out["message"])
}

func TestGetOrderNotFound(t *testing.T) {
	app, _ := newTestApp()

	resp := doJSON(t, app, http.MethodGet, "/api/orders/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var out map[string]string
	decodeJSON(t, resp, &out)
	assert.Equal(t, "Not found", out["message"])
}

func TestSystemEndpoints(t *testing.T) {
	app, _ := newTestApp()

	resp := doJSON(t, app, http.MethodGet, "/api/system/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/system/memory", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/system/performance", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStressTestEndpoint(t *testing.T) {
	app, _ := newTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/orders/stress-test", nil, map[string]int{"orderCount": 20, "batchSize": 5})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out stress.Result
	decodeJSON(t, resp, &out)
	assert.Equal(t, 20, out.TotalOrders)
	assert.Equal(t, 20, out.Processed)
}

func TestStreamOrdersDeliversPublishedEvents(t *testing.T) {
	app, h := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/orders/stream", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)

	connected, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", connected)

	blank, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "\n", blank)

	h.Bus.PublishCreated(order.Order{ID: "O1", Status: order.StatusPending, CreatedAt: 1, UpdatedAt: 1})

	eventLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: order.created\n", eventLine)

	dataLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataLine, "data: "))
	assert.Contains(t, dataLine, `"id":"O1"`)

	require.NoError(t, resp.Body.Close())
}
