package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Health returns 200 with a static liveness body.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// Version returns the running build's version and the current server time.
func Version(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"version":     version,
			"requestDate": time.Now().UTC(),
		})
	}
}
