package handlers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

// describeFieldError turns the first failed rule into a field and a readable message.
func describeFieldError(fe validator.FieldError) (string, string) {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field, field + " is required"
	case "min":
		return field, field + " must be at least " + fe.Param()
	case "max":
		return field, field + " cannot exceed " + fe.Param() + " characters"
	case "gt":
		return field, field + " must be greater than " + fe.Param()
	default:
		return field, field + " is invalid"
	}
}
