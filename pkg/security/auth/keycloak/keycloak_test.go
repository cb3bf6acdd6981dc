package keycloak

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authopts "github.com/kart-io/docvault/pkg/options/auth"
	"github.com/kart-io/docvault/pkg/utils/errors"
)

func newIDP(t *testing.T, calls *int32, active bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/realms/DocVault/protocol/openid-connect/token/introspect", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "docvault-api", r.PostForm.Get("client_id"))
		assert.Equal(t, "s3cret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		if !active || r.PostForm.Get("token") != "good-token" {
			_, _ = w.Write([]byte(`{"active":false}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"active": true,
			"sub": "u-1",
			"preferred_username": "ana",
			"email": "ana@example.com",
			"exp": ` + strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10) + `,
			"realm_access": {"roles": ["offline_access", "viewer"]},
			"resource_access": {
				"docvault-api": {"roles": ["admin", "viewer"]},
				"other-client": {"roles": ["superuser"]}
			}
		}`))
	}))
}

func testOptions(url string) *authopts.KeycloakOptions {
	return &authopts.KeycloakOptions{
		URL:          url,
		Realm:        "DocVault",
		ClientID:     "docvault-api",
		ClientSecret: "s3cret",
		Timeout:      time.Second,
		CacheTTL:     time.Minute,
	}
}

func TestVerifyMergesRealmAndClientRoles(t *testing.T) {
	var calls int32
	srv := newIDP(t, &calls, true)
	defer srv.Close()

	claims, err := New(testOptions(srv.URL)).Verify(context.Background(), "good-token")
	require.NoError(t, err)

	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "ana", claims.Username)
	assert.ElementsMatch(t, []string{"offline_access", "viewer", "admin"}, claims.Roles)
	assert.False(t, claims.HasRole("superuser"))
}

func TestVerifyInactiveToken(t *testing.T) {
	var calls int32
	srv := newIDP(t, &calls, false)
	defer srv.Close()

	_, err := New(testOptions(srv.URL)).Verify(context.Background(), "good-token")
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestVerifyProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(testOptions(srv.URL)).Verify(context.Background(), "good-token")
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
	assert.Equal(t, http.StatusUnauthorized, errors.FromError(err).HTTPStatus())
}

func TestVerifyUsesCache(t *testing.T) {
	var calls int32
	srv := newIDP(t, &calls, true)
	defer srv.Close()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	kc := New(testOptions(srv.URL), WithCache(rdb))
	for i := 0; i < 3; i++ {
		claims, err := kc.Verify(context.Background(), "good-token")
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.Subject)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	key := cacheKey("good-token")
	assert.True(t, mr.Exists(key))
	assert.NotContains(t, key, "good-token")
	ttl := mr.TTL(key)
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestVerifyEmptyToken(t *testing.T) {
	_, err := New(testOptions("http://127.0.0.1:0")).Verify(context.Background(), "")
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}
