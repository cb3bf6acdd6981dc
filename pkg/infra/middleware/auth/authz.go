package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/pkg/security/auth"
	"github.com/kart-io/docvault/pkg/security/authz"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/response"
)

// Authz checks the caller's local role against the request path and method.
// It must run after Authn.
func Authz(authorizer authz.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		role := auth.RoleFromContext(ctx)
		if role == "" {
			response.Fail(c, errors.ErrUnauthorized)
			return
		}

		path, method := c.Request.URL.Path, c.Request.Method
		allowed, err := authorizer.Authorize(ctx, role, path, method)
		if err != nil {
			response.Fail(c, errors.ErrInternal.WithCause(err))
			return
		}
		if !allowed {
			logger.Warnw("authorization denied",
				"subject", auth.SubjectFromContext(ctx),
				"role", role,
				"path", path,
				"method", method,
			)
			response.Fail(c, errors.ErrForbidden)
			return
		}
		c.Next()
	}
}
