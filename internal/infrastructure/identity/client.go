// Package identity provides a thin client for the external identity service.
// Every request re-validates its bearer token against the introspection
// endpoint; tokens are never cached.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bleuims/internal/core/apperror"
	appctx "bleuims/internal/core/context"
	"bleuims/pkg/logger"
)

const introspectionPath = "/auth/users/me"

// Client calls the identity service's introspection endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the identity service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// introspectionResponse is the wire shape of the identity service's
// user-info endpoint.
type introspectionResponse struct {
	Username string `json:"username"`
	Role     string `json:"userRole"`
}

// Introspect validates a bearer token and returns the user it belongs to.
//
//   - identity service unreachable   -> 503 SERVICE_UNAVAILABLE
//   - non-200 upstream response      -> UNAUTHORIZED with the upstream status
//   - 200                            -> the user's identity
func (c *Client) Introspect(ctx context.Context, token string) (*appctx.UserContext, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+introspectionPath, nil)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build introspection request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error(ctx, "identity service unreachable", "error", err)
		return nil, apperror.NewServiceUnavailable("auth service unavailable").WithCause(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		logger.Warn(ctx, "identity service rejected token", "status", resp.StatusCode)
		return nil, apperror.NewUpstreamAuth(resp.StatusCode, "auth service rejected token")
	}

	var body introspectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperror.NewServiceUnavailable("auth service returned malformed response").WithCause(err)
	}

	return &appctx.UserContext{
		Username: body.Username,
		Role:     body.Role,
	}, nil
}
