// Package apiclient calls the on-call API on behalf of a signed-in user.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/pkg/errors"
)

// TokenSource returns the current ID token, or "" when signed out.
type TokenSource func() string

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

func New(baseURL string, token TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   token,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Get loads the caller's record. The API identifies the caller by token, so
// id must be the uid of the current credential.
func (c *Client) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &user); err != nil {
		return nil, err
	}
	if user.ID != id {
		return nil, errors.Forbidden("token belongs to another user")
	}
	return &user, nil
}

// Create makes sure the caller has a patient record. It is idempotent.
func (c *Client) Create(ctx context.Context, id, email string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/api/v1/me", struct{}{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, env.Message)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func statusError(status int, message string) error {
	cause := fmt.Errorf("api responded %d: %s", status, message)
	switch status {
	case http.StatusNotFound:
		return errors.NotFound("user", cause)
	case http.StatusBadRequest:
		return errors.BadRequest(message, cause)
	case http.StatusUnauthorized:
		return errors.Unauthorized(cause)
	case http.StatusForbidden:
		return errors.Forbidden(message)
	default:
		return errors.Internal(cause)
	}
}
