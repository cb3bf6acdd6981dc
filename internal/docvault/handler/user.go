package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/docvault/pkg/security/auth"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/response"
)

// MeResponse echoes the caller's identity.
type MeResponse struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Role     string   `json:"role"`
	Roles    []string `json:"roles"`
}

// Me returns the authenticated identity and its local role.
func Me(c *gin.Context) {
	ctx := c.Request.Context()
	claims := auth.ClaimsFromContext(ctx)
	if claims == nil {
		response.Fail(c, errors.ErrUnauthorized)
		return
	}

	roles := claims.Roles
	if roles == nil {
		roles = []string{}
	}
	response.OK(c, MeResponse{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     auth.RoleFromContext(ctx),
		Roles:    roles,
	})
}
