package http

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/gofiber/fiber/v2"
	validator "gopkg.in/go-playground/validator.v9"
	en2 "gopkg.in/go-playground/validator.v9/translations/en"
)

// DecodeHandlerFunc receives the struct WithBody decoded and validated.
type DecodeHandlerFunc func(p any, c *fiber.Ctx) error

// ConstructorFunc builds a fresh instance of the payload type.
type ConstructorFunc func() any

type decoderHandler struct {
	handler      DecodeHandlerFunc
	constructor  ConstructorFunc
	structSource any
}

func newOfType(s any) any {
	t := reflect.TypeOf(s)
	v := reflect.New(t.Elem())

	return v.Interface()
}

func (d *decoderHandler) FiberHandlerFunc(c *fiber.Ctx) error {
	var s any

	if d.constructor != nil {
		s = d.constructor()
	} else {
		s = newOfType(d.structSource)
	}

	bodyBytes := c.Body()

	if err := json.Unmarshal(bodyBytes, s); err != nil {
		return BadRequest(c, ResponseError{Code: "MALFORMED_BODY", Title: "Malformed Body", Message: err.Error()})
	}

	marshaled, err := json.Marshal(s)
	if err != nil {
		return err
	}

	var originalMap, marshaledMap map[string]any

	if err := json.Unmarshal(bodyBytes, &originalMap); err != nil {
		return err
	}

	if err := json.Unmarshal(marshaled, &marshaledMap); err != nil {
		return err
	}

	diffFields := make(UnknownFields)

	for key, value := range originalMap {
		if _, ok := marshaledMap[key]; !ok {
			diffFields[key] = value
		}
	}

	if len(diffFields) > 0 {
		return BadRequest(c, ValidationUnknownFieldsError{
			Title:   "Unknown Fields",
			Code:    "UNKNOWN_FIELDS",
			Message: "request payload has fields not recognized by this endpoint",
			Fields:  diffFields,
		})
	}

	if err := ValidateStruct(s); err != nil {
		return BadRequest(c, err)
	}

	return d.handler(s, c)
}

// WithBody decodes the request body into a new instance of s's type,
// rejects unknown fields, validates struct tags, and only then calls h.
func WithBody(s any, h DecodeHandlerFunc) fiber.Handler {
	d := &decoderHandler{handler: h, structSource: s}
	return d.FiberHandlerFunc
}

// WithConstructor is like WithBody but builds the payload via a
// constructor instead of reflecting on a zero-value source. The body must
// still be a JSON object: the unknown-field check decodes it into a map, so
// a JSON array body fails with an error.
func WithConstructor(c ConstructorFunc, h DecodeHandlerFunc) fiber.Handler {
	d := &decoderHandler{handler: h, constructor: c}
	return d.FiberHandlerFunc
}

// ValidateStruct runs validator.v9 struct tag validation over s,
// returning a ValidationKnownFieldsError naming every failed field.
func ValidateStruct(s any) error {
	v, trans := newValidator()

	k := reflect.ValueOf(s).Kind()
	if k == reflect.Ptr {
		k = reflect.ValueOf(s).Elem().Kind()
	}

	if k != reflect.Struct {
		return nil
	}

	if err := v.Struct(s); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		fields := make(FieldValidations, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Translate(trans)
		}

		return ValidationKnownFieldsError{
			Title:   "Validation Error",
			Code:    "VALIDATION",
			Message: "one or more fields failed validation",
			Fields:  fields,
		}
	}

	return nil
}

func newValidator() (*validator.Validate, ut.Translator) {
	locale := en.New()
	uni := ut.New(locale, locale)

	trans, _ := uni.GetTranslator("en")

	v := validator.New()

	if err := en2.RegisterDefaultTranslations(v, trans); err != nil {
		panic(err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v, trans
}
