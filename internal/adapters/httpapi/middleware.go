package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ordermesh/orderflow/internal/order"
	"github.com/ordermesh/orderflow/pkg/apperr"
	transhttp "github.com/ordermesh/orderflow/pkg/transport/http"
)

// localKeyIdempotencyKey is where the idempotency gate stashes the
// validated key for postBatch to pick up after the handler completes.
const localKeyIdempotencyKey = "idempotencyKey"

// localKeyValidatedOrders is where validateBatch stashes the decoded,
// validated order sequence for postBatch.
const localKeyValidatedOrders = "validatedOrders"

// idempotencyGate implements the idempotency precondition: missing or
// malformed keys short-circuit with a fixed error body; a cache hit
// replays the frozen response verbatim and never touches the pipeline.
func (h *Handler) idempotencyGate(c *fiber.Ctx) error {
	key := c.Get(transhttp.HeaderIdempotencyKey)

	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Idempotency-Key header is required",
			"error":   "Missing required header: Idempotency-Key",
		})
	}

	if !order.ValidateOrderID(key) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid idempotency key format. Must be 1-128 alphanumeric characters, hyphens, or underscores.",
		})
	}

	if entry, ok := h.Idempotency.Get(key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(entry.StatusCode).Send(entry.Body)
	}

	c.Locals(localKeyIdempotencyKey, key)

	return c.Next()
}

// validateBatch implements the batch-validator precondition: decodes and
// validates the raw body as an order sequence, attaching the result for
// postBatch on success.
func (h *Handler) validateBatch(c *fiber.Ctx) error {
	orders, diagnostic, tooLarge := order.ValidateOrdersInput(c.Body())
	if diagnostic != "" {
		var err error = apperr.NewValidationError(diagnostic)
		if tooLarge {
			err = apperr.NewPayloadTooLargeError(diagnostic)
		}

		status, body := transhttp.StatusAndBody(err)

		return h.cacheAndReturn(c, status, body)
	}

	c.Locals(localKeyValidatedOrders, orders)

	return c.Next()
}

// validateOrderID implements the id-validator precondition shared by
// GET/PUT /orders/:id.
func (h *Handler) validateOrderID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !order.ValidateOrderID(id) {
		return transhttp.WithError(c, apperr.NewValidationError("Invalid order id format"))
	}

	return c.Next()
}

// validateStressConfig implements the stress-test-config precondition.
func (h *Handler) validateStressConfig(c *fiber.Ctx) error {
	cfg, diagnostic := order.ValidateStressTestConfig(c.Body())
	if diagnostic != "" {
		return transhttp.WithError(c, apperr.NewValidationError(diagnostic))
	}

	c.Locals("stressConfig", cfg)

	return c.Next()
}

// cacheAndReturn writes body at status, freezes it into the idempotency
// cache under the in-flight key (if any was attached by idempotencyGate),
// and returns it as the response. Used by every exit point downstream of
// the idempotency gate so retries of a failed request see the same
// failure.
func (h *Handler) cacheAndReturn(c *fiber.Ctx, status int, body any) error {
	if err := c.Status(status).JSON(body); err != nil {
		return err
	}

	if key, ok := c.Locals(localKeyIdempotencyKey).(string); ok && key != "" {
		h.Idempotency.Set(key, status, append([]byte(nil), c.Response().Body()...), 0)
	}

	return nil
}
