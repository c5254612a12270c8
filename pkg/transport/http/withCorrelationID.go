package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WithCorrelationID assigns every request a correlation id, reusing one
// supplied by the caller so a retried request can be traced end to end.
func WithCorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cid := c.Get(headerCorrelationID)
		if cid == "" {
			cid = uuid.New().String()
		}

		c.Set(headerCorrelationID, cid)
		c.Request().Header.Set(headerCorrelationID, cid)

		return c.Next()
	}
}
