package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed rule reported to API clients.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var messages = map[string]string{
	"required":     "is required",
	"email":        "must be a valid email",
	"min":          "is too short",
	"max":          "is too long",
	"locale":       "must be bg or en",
	"service_type": "must be a known service title",
}

// UseJSONNames makes field errors report json tag names.
func UseJSONNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// RegisterEnum adds a string rule under tag that passes when allowed does.
func RegisterEnum(v *validator.Validate, tag string, allowed func(string) bool) error {
	return v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return allowed(field.String())
	})
}

// FieldErrors flattens validation errors. Other errors yield nil.
func FieldErrors(err error) []FieldError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		msg, ok := messages[e.Tag()]
		if !ok {
			msg = fmt.Sprintf("failed on %s", e.Tag())
		}
		out = append(out, FieldError{Field: e.Field(), Message: msg})
	}
	return out
}

// Message renders err as one line for an error response.
func Message(err error) string {
	fields := FieldErrors(err)
	if len(fields) == 0 {
		return "invalid request body"
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return strings.Join(parts, "; ")
}
