// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"bleuims/internal/core/apperror"
	appctx "bleuims/internal/core/context"
)

// TokenIntrospector validates a bearer token against the identity service
// and returns the user it belongs to.
type TokenIntrospector interface {
	Introspect(ctx context.Context, token string) (*appctx.UserContext, error)
}

// Auth middleware extracts the bearer token, re-validates it against the
// identity service (no caching), and populates the user context.
func Auth(introspector TokenIntrospector) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := introspector.Introspect(c.Request.Context(), parts[1])
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("username", user.Username)
		c.Set("role", user.Role)

		c.Next()
	}
}

// RequireRole middleware checks the user's role against an allow-list.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		for _, required := range roles {
			if user.Role == required {
				c.Next()
				return
			}
		}

		_ = c.Error(
			apperror.NewForbidden("access denied, required role not met").
				WithDetail("user_role", user.Role).
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
