package order

import (
	"bytes"
	"encoding/json"
	"regexp"

	"github.com/shopspring/decimal"
)

// MaxOrdersPerRequest is the hard ceiling on a single batch's item count.
const MaxOrdersPerRequest = 1000

// DefaultBatchSize is the chunk size BatchPipeline falls back to when the
// caller supplies none.
const DefaultBatchSize = 100

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateOrder reports whether o satisfies every Order invariant: non-empty
// id matching the id pattern, a recognized status, a finite non-negative
// amount, and positive timestamps.
func ValidateOrder(o Order) bool {
	if o.ID == "" || !idPattern.MatchString(o.ID) {
		return false
	}

	if !o.Status.IsValid() {
		return false
	}

	if o.Amount.IsNegative() {
		return false
	}

	if o.CreatedAt <= 0 || o.UpdatedAt <= 0 {
		return false
	}

	return true
}

// ValidateOrderID reports whether s is a non-empty string matching
// ^[A-Za-z0-9_-]{1,128}$.
func ValidateOrderID(s string) bool {
	return s != "" && idPattern.MatchString(s)
}

// rawOrder is the permissive shape ValidateOrdersInput decodes into before
// re-validating field types, so a malformed field (e.g. amount as a
// string) is reported the same way a missing field is.
type rawOrder struct {
	ID        json.RawMessage `json:"id"`
	Status    json.RawMessage `json:"status"`
	Amount    json.RawMessage `json:"amount"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
}

// isJSONObject reports whether raw's first non-whitespace byte opens a JSON
// object, without decoding it.
func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// ValidateOrdersInput checks that raw decodes to a non-empty JSON array of
// order-shaped objects, each carrying a string id, a string status, and a
// numeric amount. It returns the parsed orders, a diagnostic message on
// failure, and whether the failure is specifically "payload too large".
func ValidateOrdersInput(raw []byte) (orders []Order, diagnostic string, tooLarge bool) {
	var rawItems []json.RawMessage

	if err := json.Unmarshal(raw, &rawItems); err != nil {
		return nil, "Body must be an array", false
	}

	if len(rawItems) == 0 {
		return nil, "Orders array cannot be empty", false
	}

	if len(rawItems) > MaxOrdersPerRequest {
		return nil, "Maximum 1000 orders allowed per request", true
	}

	out := make([]Order, 0, len(rawItems))

	for _, raw := range rawItems {
		if !isJSONObject(raw) {
			return nil, "All items must be objects", false
		}

		var it rawOrder
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, "All items must be objects", false
		}

		var id string
		if err := json.Unmarshal(it.ID, &id); err != nil || id == "" {
			return nil, "All orders must have a valid id (string)", false
		}

		var status string
		if err := json.Unmarshal(it.Status, &status); err != nil || status == "" {
			return nil, "All orders must have a valid status (string)", false
		}

		// decimal.Decimal also decodes quoted strings and null, so require
		// a bare JSON number literal first.
		trimmedAmount := bytes.TrimSpace(it.Amount)
		if len(trimmedAmount) == 0 || (trimmedAmount[0] != '-' && (trimmedAmount[0] < '0' || trimmedAmount[0] > '9')) {
			return nil, "All orders must have a valid amount (number)", false
		}

		var amount decimal.Decimal
		if err := json.Unmarshal(it.Amount, &amount); err != nil {
			return nil, "All orders must have a valid amount (number)", false
		}

		out = append(out, Order{
			ID:        id,
			Status:    Status(status),
			Amount:    amount,
			CreatedAt: it.CreatedAt,
			UpdatedAt: it.UpdatedAt,
		})
	}

	return out, "", false
}

// ValidateBatchSize resolves n (nil meaning "use fallback") against the
// allowed [1, 1000] range, returning ok = false when n is out of range.
func ValidateBatchSize(n *int, fallback int) (size int, ok bool) {
	if n == nil {
		if fallback < 1 || fallback > MaxOrdersPerRequest {
			fallback = DefaultBatchSize
		}

		return fallback, true
	}

	if *n < 1 || *n > MaxOrdersPerRequest {
		return 0, false
	}

	return *n, true
}

// StressTestConfig is the validated input to POST /orders/stress-test.
type StressTestConfig struct {
	OrderCount        int `json:"orderCount"`
	BatchSize         int `json:"batchSize"`
	ConcurrentBatches int `json:"concurrentBatches"`
}

// stressTestConfigInput is the wire shape: every field optional.
type stressTestConfigInput struct {
	OrderCount        *int `json:"orderCount"`
	BatchSize         *int `json:"batchSize"`
	ConcurrentBatches *int `json:"concurrentBatches"`
}

// ValidateStressTestConfig decodes raw into a StressTestConfig, applying
// defaults (orderCount 1000, batchSize 100, concurrentBatches 1) and
// bounds-checking (orderCount [1,10000], batchSize [1,1000]).
func ValidateStressTestConfig(raw []byte) (cfg StressTestConfig, diagnostic string) {
	var in stressTestConfigInput

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			return StressTestConfig{}, "Invalid stress test configuration"
		}
	}

	cfg.OrderCount = 1000
	if in.OrderCount != nil {
		cfg.OrderCount = *in.OrderCount
	}

	if cfg.OrderCount < 1 || cfg.OrderCount > 10000 {
		return StressTestConfig{}, "orderCount must be between 1 and 10000"
	}

	cfg.BatchSize = 100
	if in.BatchSize != nil {
		cfg.BatchSize = *in.BatchSize
	}

	if cfg.BatchSize < 1 || cfg.BatchSize > 1000 {
		return StressTestConfig{}, "batchSize must be between 1 and 1000"
	}

	cfg.ConcurrentBatches = 1
	if in.ConcurrentBatches != nil {
		cfg.ConcurrentBatches = *in.ConcurrentBatches
	}

	if cfg.ConcurrentBatches < 1 {
		return StressTestConfig{}, "concurrentBatches must be at least 1"
	}

	return cfg, ""
}
