package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authopts "github.com/kart-io/docvault/pkg/options/auth"
	"github.com/kart-io/docvault/pkg/security/auth"
	"github.com/kart-io/docvault/pkg/security/auth/jwt"
	"github.com/kart-io/docvault/pkg/security/authz"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/response"
)

type staticAuthorizer map[string]bool

func (s staticAuthorizer) Authorize(_ context.Context, subject, resource, action string) (bool, error) {
	return s[subject+" "+action+" "+resource], nil
}

func setup(t *testing.T) (*gin.Engine, *jwt.JWT) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	j, err := jwt.New(&authopts.JWTOptions{Key: "0123456789abcdef0123456789abcdef", Expired: time.Hour})
	require.NoError(t, err)

	resolve := func(_ context.Context, c *auth.Claims) (string, error) {
		return authz.RoleFor(c.Roles, "admin"), nil
	}
	azr := staticAuthorizer{
		"viewer GET /me":       true,
		"admin GET /me":        true,
		"admin DELETE /docs/1": true,
	}

	r := gin.New()
	r.Use(Authn(j, resolve), Authz(azr))
	r.GET("/me", func(c *gin.Context) {
		response.OK(c, gin.H{
			"sub":  auth.SubjectFromContext(c.Request.Context()),
			"role": auth.RoleFromContext(c.Request.Context()),
		})
	})
	r.DELETE("/docs/:id", func(c *gin.Context) { response.OK(c, nil) })
	return r, j
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMissingAndInvalidToken(t *testing.T) {
	r, _ := setup(t)

	w := do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), errors.ErrInvalidToken.MessageEN)
}

func TestViewerAndAdminAccess(t *testing.T) {
	r, j := setup(t)

	viewer, err := j.Sign(&auth.Claims{Subject: "u-viewer", Roles: []string{"offline_access"}})
	require.NoError(t, err)
	admin, err := j.Sign(&auth.Claims{Subject: "u-admin", Roles: []string{"admin"}})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/me", viewer)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"viewer"`)

	w = do(r, http.MethodDelete, "/docs/1", viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodDelete, "/docs/1", admin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("abc"))
}
