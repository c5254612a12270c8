package http

const (
	headerCorrelationID = "X-Correlation-Id"
	headerUserAgent     = "User-Agent"

	// HeaderIdempotencyKey is the header name idempotency-gated endpoints
	// require; exported since the gate itself lives in the adapter layer.
	HeaderIdempotencyKey = "Idempotency-Key"
)
