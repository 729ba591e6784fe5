package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bleuims/internal/core/apperror"
	appctx "bleuims/internal/core/context"
)

type stubIntrospector struct {
	user *appctx.UserContext
	err  error
}

func (s *stubIntrospector) Introspect(ctx context.Context, token string) (*appctx.UserContext, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func newAuthRouter(introspector TokenIntrospector, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(Auth(introspector))

	handlers := gin.HandlersChain{}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": appctx.GetUsername(c.Request.Context())})
	})

	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	r := newAuthRouter(&stubIntrospector{user: &appctx.UserContext{Username: "alice", Role: "staff"}})

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	r := newAuthRouter(&stubIntrospector{user: &appctx.UserContext{Username: "alice", Role: "staff"}})

	for _, header := range []string{"token-without-scheme", "Basic abc123"} {
		w := doRequest(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthBearerSchemeIsCaseInsensitive(t *testing.T) {
	r := newAuthRouter(&stubIntrospector{user: &appctx.UserContext{Username: "alice", Role: "staff"}})

	w := doRequest(r, "bearer token-123")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthPopulatesUserContext(t *testing.T) {
	r := newAuthRouter(&stubIntrospector{user: &appctx.UserContext{Username: "alice", Role: "staff"}})

	w := doRequest(r, "Bearer token-123")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["username"])
}

func TestAuthPropagatesIntrospectionError(t *testing.T) {
	r := newAuthRouter(&stubIntrospector{
		err: apperror.NewUpstreamAuth(http.StatusUnauthorized, "auth service rejected token"),
	})

	w := doRequest(r, "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthServiceOutageIs503(t *testing.T) {
	r := newAuthRouter(&stubIntrospector{
		err: apperror.NewServiceUnavailable("auth service unavailable"),
	})

	w := doRequest(r, "Bearer token")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	r := newAuthRouter(
		&stubIntrospector{user: &appctx.UserContext{Username: "carol", Role: "cashier"}},
		"admin", "manager", "staff", "cashier",
	)

	w := doRequest(r, "Bearer token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleRejectsUnlistedRole(t *testing.T) {
	r := newAuthRouter(
		&stubIntrospector{user: &appctx.UserContext{Username: "carol", Role: "cashier"}},
		"admin", "manager", "staff",
	)

	w := doRequest(r, "Bearer token")
	require.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeForbidden, body["code"])
}
