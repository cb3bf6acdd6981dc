// Package keycloak verifies access tokens through Keycloak's OAuth2 token
// introspection endpoint.
package keycloak

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	authopts "github.com/kart-io/docvault/pkg/options/auth"
	"github.com/kart-io/docvault/pkg/security/auth"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/httpclient"
	"github.com/kart-io/docvault/pkg/utils/json"
)

const cachePrefix = "docvault:introspect:"

var _ auth.Authenticator = (*Introspector)(nil)

// introspection is the subset of the RFC 7662 response Keycloak returns.
type introspection struct {
	Active            bool   `json:"active"`
	Subject           string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	Exp               int64  `json:"exp"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
	ResourceAccess map[string]struct {
		Roles []string `json:"roles"`
	} `json:"resource_access"`
}

// Introspector implements auth.Authenticator against a Keycloak realm.
type Introspector struct {
	opts     *authopts.KeycloakOptions
	endpoint string
	client   *httpclient.Client
	cache    goredis.Cmdable
}

// Option configures an Introspector.
type Option func(*Introspector)

// WithCache caches introspection results in Redis.
func WithCache(c goredis.Cmdable) Option {
	return func(i *Introspector) { i.cache = c }
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(i *Introspector) { i.client = c }
}

// New creates an Introspector for the configured realm.
func New(opts *authopts.KeycloakOptions, options ...Option) *Introspector {
	i := &Introspector{
		opts: opts,
		endpoint: fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token/introspect",
			strings.TrimRight(opts.URL, "/"), url.PathEscape(opts.Realm)),
		client: httpclient.NewClient(opts.Timeout, 1),
	}
	for _, o := range options {
		o(i)
	}
	return i
}

// Type returns the authenticator type.
func (i *Introspector) Type() string { return "keycloak" }

// Verify introspects the token and returns its claims. Roles are the union of
// the realm roles and the roles granted on the configured client.
func (i *Introspector) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, errors.ErrInvalidToken
	}

	key := cacheKey(token)
	if claims, ok := i.cached(ctx, key); ok {
		return claims, nil
	}

	info, err := i.introspect(ctx, token)
	if err != nil {
		logger.Warnw("token introspection failed", "error", err.Error())
		return nil, errors.ErrInvalidToken.WithCause(err)
	}
	if !info.Active || info.Subject == "" {
		return nil, errors.ErrInvalidToken
	}

	claims := &auth.Claims{
		Subject:   info.Subject,
		Username:  info.PreferredUsername,
		Email:     info.Email,
		Name:      info.Name,
		ExpiresAt: info.Exp,
		Roles:     auth.MergeRoles(info.RealmAccess.Roles, info.ResourceAccess[i.opts.ClientID].Roles),
	}
	if !claims.Valid() {
		return nil, errors.ErrInvalidToken
	}

	i.store(ctx, key, claims)
	return claims, nil
}

func (i *Introspector) introspect(ctx context.Context, token string) (*introspection, error) {
	form := url.Values{}
	form.Set("token", token)
	form.Set("client_id", i.opts.ClientID)
	form.Set("client_secret", i.opts.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var info introspection
	if err := i.client.DoJSON(req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (i *Introspector) cached(ctx context.Context, key string) (*auth.Claims, bool) {
	if i.cache == nil || i.opts.CacheTTL <= 0 {
		return nil, false
	}
	b, err := i.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.Debugw("introspection cache read failed", "error", err.Error())
		}
		return nil, false
	}
	var claims auth.Claims
	if err := json.Unmarshal(b, &claims); err != nil || !claims.Valid() {
		return nil, false
	}
	return &claims, true
}

// store caches claims for min(CacheTTL, time until expiry).
func (i *Introspector) store(ctx context.Context, key string, claims *auth.Claims) {
	if i.cache == nil || i.opts.CacheTTL <= 0 {
		return
	}
	ttl := i.opts.CacheTTL
	if claims.ExpiresAt > 0 {
		if left := time.Until(time.Unix(claims.ExpiresAt, 0)); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return
	}
	b, err := json.Marshal(claims)
	if err != nil {
		return
	}
	if err := i.cache.Set(ctx, key, b, ttl).Err(); err != nil {
		logger.Debugw("introspection cache write failed", "error", err.Error())
	}
}

// cacheKey never stores the raw token.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return cachePrefix + hex.EncodeToString(sum[:])
}
