package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Email  string `json:"email" validate:"required,email"`
	Locale string `json:"locale" validate:"omitempty,locale"`
}

func newValidate(t *testing.T) *validator.Validate {
	v := validator.New()
	UseJSONNames(v)
	require.NoError(t, RegisterEnum(v, "locale", func(s string) bool {
		return s == "bg" || s == "en"
	}))
	return v
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	v := newValidate(t)

	err := v.Struct(form{Locale: "de"})

	assert.ElementsMatch(t, []FieldError{
		{Field: "email", Message: "is required"},
		{Field: "locale", Message: "must be bg or en"},
	}, FieldErrors(err))
	assert.Contains(t, Message(err), "email is required")
}

func TestRegisterEnumAcceptsAllowed(t *testing.T) {
	v := newValidate(t)

	assert.NoError(t, v.Struct(form{Email: "a@example.com", Locale: "bg"}))
	assert.NoError(t, v.Struct(form{Email: "a@example.com"}))
}

func TestMessageForOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("unexpected EOF")))
	assert.Equal(t, "invalid request body", Message(errors.New("unexpected EOF")))
}
