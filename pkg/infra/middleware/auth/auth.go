// Package auth provides authentication and authorization middleware.
package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	ctxlog "github.com/kart-io/docvault/pkg/infra/logger"
	"github.com/kart-io/docvault/pkg/security/auth"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/response"
)

// RoleResolver maps verified claims to the caller's local role. It may
// persist the identity as a side effect.
type RoleResolver func(ctx context.Context, claims *auth.Claims) (string, error)

// Authn verifies the bearer token, injects the claims and, when resolve is
// set, the resolved local role into the request context. Every token
// problem is reported with the same generic 401 body.
func Authn(authenticator auth.Authenticator, resolve RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Fail(c, errors.ErrUnauthorized)
			return
		}

		claims, err := authenticator.Verify(c.Request.Context(), token)
		if err != nil {
			logAuthFailure(c, token, err)
			response.Fail(c, errors.ErrInvalidToken)
			return
		}

		ctx := auth.ContextWithClaims(c.Request.Context(), claims)
		ctx = ctxlog.WithUserID(ctx, claims.Subject)
		if resolve != nil {
			role, err := resolve(ctx, claims)
			if err != nil {
				response.Fail(c, err)
				return
			}
			ctx = auth.ContextWithRole(ctx, role)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// logAuthFailure records a failed verification without leaking the token.
func logAuthFailure(c *gin.Context, token string, err error) {
	prefix := token
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	logger.Warnw("authentication failed",
		"error", err.Error(),
		"token_prefix", prefix+"...",
		"client_ip", c.ClientIP(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
}
