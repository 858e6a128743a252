package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medictrans/oncall-api/pkg/errors"
)

func server(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", func() string { return "token-1" })
}

func TestGetMe(t *testing.T) {
	client := server(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/me", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"status":"success","data":{"id":"u1","email":"u1@example.com","role":"patient"}}`))
	})

	user, err := client.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", user.Email)
	assert.Equal(t, "patient", user.Role)
}

func TestGetMeOtherUser(t *testing.T) {
	client := server(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"id":"u2"}}`))
	})

	_, err := client.Get(context.Background(), "u1")

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestGetMeNotFound(t *testing.T) {
	client := server(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"user not found"}`))
	})

	_, err := client.Get(context.Background(), "u1")

	assert.True(t, errors.IsNotFound(err))
}

func TestCreatePostsToMe(t *testing.T) {
	client := server(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"status":"success","data":{"id":"u1","role":"patient"}}`))
	})

	user, err := client.Create(context.Background(), "u1", "u1@example.com")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestNonJSONFailure(t *testing.T) {
	client := server(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	})

	_, err := client.Get(context.Background(), "u1")

	assert.Error(t, err)
}
