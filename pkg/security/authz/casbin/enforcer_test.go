package casbin

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	authzopts "github.com/kart-io/docvault/pkg/options/authz"
	"github.com/kart-io/docvault/pkg/security/authz"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "authz.db")), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestDefaultPolicies(t *testing.T) {
	a, err := New(openDB(t), authzopts.NewOptions())
	require.NoError(t, err)

	tests := []struct {
		role, path, method string
		want               bool
	}{
		{authz.RoleViewer, "/api/v1/me", "GET", true},
		{authz.RoleViewer, "/api/v1/chat", "POST", true},
		{authz.RoleViewer, "/api/v1/conversations", "POST", true},
		{authz.RoleViewer, "/api/v1/conversations/abc/messages", "GET", true},
		{authz.RoleViewer, "/api/v1/documents", "POST", false},
		{authz.RoleViewer, "/api/v1/documents/abc", "DELETE", false},
		{authz.RoleAdmin, "/api/v1/documents", "POST", true},
		{authz.RoleAdmin, "/api/v1/documents/abc", "DELETE", true},
		{authz.RoleAdmin, "/api/v1/documents/abc", "PUT", false},
		{authz.RoleAdmin, "/api/v1/chat", "POST", true},
		{"", "/api/v1/me", "GET", false},
	}
	for _, tt := range tests {
		got, err := a.Authorize(context.Background(), tt.role, tt.path, tt.method)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %s %s", tt.role, tt.method, tt.path)
	}
}

func TestSeedingIsIdempotent(t *testing.T) {
	db := openDB(t)
	_, err := New(db, authzopts.NewOptions())
	require.NoError(t, err)

	a, err := New(db, authzopts.NewOptions())
	require.NoError(t, err)

	policies, err := a.Enforcer().GetPolicy()
	require.NoError(t, err)
	assert.Len(t, policies, len(DefaultPolicies))
}

func TestWithoutSeeding(t *testing.T) {
	a, err := New(openDB(t), &authzopts.Options{})
	require.NoError(t, err)

	ok, err := a.Authorize(context.Background(), authz.RoleAdmin, "/api/v1/documents", "GET")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoleFor(t *testing.T) {
	assert.Equal(t, authz.RoleAdmin, authz.RoleFor([]string{"offline_access", "admin"}, "admin"))
	assert.Equal(t, authz.RoleViewer, authz.RoleFor([]string{"offline_access"}, "admin"))
	assert.Equal(t, authz.RoleViewer, authz.RoleFor(nil, "admin"))
	assert.Equal(t, authz.RoleAdmin, authz.RoleFor([]string{"docvault-admin"}, "docvault-admin"))
}
