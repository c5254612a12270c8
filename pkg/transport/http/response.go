// Package http holds the Fiber-facing plumbing shared across handlers:
// response helpers, error dispatch, body decode+validate, and the
// logging/correlation-id middleware.
package http

import "github.com/gofiber/fiber/v2"

// OK writes a 200 response with body as the JSON payload.
func OK(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusOK).JSON(body)
}

// Created writes a 201 response with body as the JSON payload.
func Created(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}

// Accepted writes a 202 response with body as the JSON payload.
func Accepted(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusAccepted).JSON(body)
}

// NoContent writes a 204 response with no body.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// PartialContent writes a 206 response with body as the JSON payload.
func PartialContent(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusPartialContent).JSON(body)
}

// BadRequest writes a 400 response with body as the JSON payload.
func BadRequest(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// Unauthorized writes a 401 error response.
func Unauthorized(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ResponseError{Code: code, Title: title, Message: message})
}

// Forbidden writes a 403 error response.
func Forbidden(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(ResponseError{Code: code, Title: title, Message: message})
}

// NotFound writes a 404 error response.
func NotFound(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(ResponseError{Code: code, Title: title, Message: message})
}

// Conflict writes a 409 error response.
func Conflict(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusConflict).JSON(ResponseError{Code: code, Title: title, Message: message})
}

// UnprocessableEntity writes a 422 error response.
func UnprocessableEntity(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ResponseError{Code: code, Title: title, Message: message})
}

// PayloadTooLarge writes a 413 error response.
func PayloadTooLarge(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusRequestEntityTooLarge).JSON(ResponseError{Code: code, Title: title, Message: message})
}

// RangeNotSatisfiable writes a bare 416 response.
func RangeNotSatisfiable(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusRequestedRangeNotSatisfiable)
}

// InternalServerError writes a 500 error response.
func InternalServerError(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ResponseError{Code: code, Title: title, Message: message})
}
