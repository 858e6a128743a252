package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("request", nil), http.StatusNotFound},
		{"bad request", BadRequest("invalid locale", nil), http.StatusBadRequest},
		{"unauthorized", Unauthorized(nil), http.StatusUnauthorized},
		{"forbidden", Forbidden("admin only"), http.StatusForbidden},
		{"internal", Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestIsNotFoundThroughWrapping(t *testing.T) {
	base := NotFound("user", fmt.Errorf("rpc error"))
	wrapped := fmt.Errorf("failed to get user: %w", base)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "user not found: rpc error", appErr.Error())
}
