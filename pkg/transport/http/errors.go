package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ordermesh/orderflow/pkg/apperr"
)

// ResponseError is the JSON shape of the error bodies StatusAndBody and the
// status helpers render. WithBody's field-validation errors and the
// idempotency gate's literal bodies use their own shapes.
type ResponseError struct {
	Code    string `json:"code,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

func (r ResponseError) Error() string { return r.Message }

// WithError maps a domain error to its fiber response. Anything that
// isn't one of the recognized apperr types renders as 500.
func WithError(c *fiber.Ctx, err error) error {
	status, body := StatusAndBody(err)
	return c.Status(status).JSON(body)
}

// StatusAndBody maps a domain error to the status code and JSON body
// WithError would render, without writing the response. Callers that must
// freeze the body elsewhere too (e.g. an idempotency cache) call this
// directly instead of duplicating the dispatch switch.
func StatusAndBody(err error) (status int, body any) {
	var (
		validationErr ValidationKnownFieldsError
		valErr        apperr.ValidationError
		notFoundErr   apperr.NotFoundError
		tooLargeErr   apperr.PayloadTooLargeError
	)

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr
	case errors.As(err, &valErr):
		return fiber.StatusBadRequest, ResponseError{Message: valErr.Message}
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound, ResponseError{Message: notFoundErr.Message}
	case errors.As(err, &tooLargeErr):
		return fiber.StatusRequestEntityTooLarge, ResponseError{Message: tooLargeErr.Message}
	default:
		return fiber.StatusInternalServerError, ResponseError{Message: "Internal Server Error"}
	}
}

// ValidationKnownFieldsError is the structured body WithBody returns when
// struct validation rejects one or more known fields.
type ValidationKnownFieldsError struct {
	Title   string           `json:"title"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Fields  FieldValidations `json:"fields,omitempty"`
}

func (e ValidationKnownFieldsError) Error() string { return e.Message }

// FieldValidations maps a field name to the reason it failed validation.
type FieldValidations map[string]string

// ValidationUnknownFieldsError is the structured body WithBody returns
// when the payload carries fields the target struct doesn't declare.
type ValidationUnknownFieldsError struct {
	Title   string        `json:"title"`
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Fields  UnknownFields `json:"fields,omitempty"`
}

func (e ValidationUnknownFieldsError) Error() string { return e.Message }

// UnknownFields maps an unrecognized field name to its raw decoded value.
type UnknownFields map[string]any
