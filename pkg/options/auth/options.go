// Package auth provides identity provider options.
//
// Configuration Example (YAML):
//
//	auth:
//	  provider: keycloak
//	  admin-role: admin
//	  keycloak:
//	    url: http://localhost:8080
//	    realm: DocVault
//	    client-id: docvault-api
//	    cache-ttl: 1m
//
// Environment Variables:
//
//	KEYCLOAK_CLIENT_SECRET - introspection client secret
//	JWT_KEY                - HMAC key for the jwt provider
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/docvault/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

const (
	// ProviderKeycloak verifies tokens through OAuth2 token introspection.
	ProviderKeycloak = "keycloak"
	// ProviderJWT verifies HS256 tokens locally.
	ProviderJWT = "jwt"

	// MinKeyLength is the minimum HMAC key length.
	MinKeyLength = 32
)

// KeycloakOptions configures token introspection.
type KeycloakOptions struct {
	URL          string        `json:"url" mapstructure:"url"`
	Realm        string        `json:"realm" mapstructure:"realm"`
	ClientID     string        `json:"client-id" mapstructure:"client-id"`
	ClientSecret string        `json:"-" mapstructure:"client-secret"`
	Timeout      time.Duration `json:"timeout" mapstructure:"timeout"`
	// CacheTTL bounds how long an introspection result is cached in Redis.
	// Zero disables the cache.
	CacheTTL time.Duration `json:"cache-ttl" mapstructure:"cache-ttl"`
}

// JWTOptions configures local token verification.
type JWTOptions struct {
	Key     string        `json:"-" mapstructure:"key"`
	Issuer  string        `json:"issuer" mapstructure:"issuer"`
	Expired time.Duration `json:"expired" mapstructure:"expired"`
}

// Options contains identity provider configuration.
type Options struct {
	Provider string `json:"provider" mapstructure:"provider"`
	// AdminRole is the provider role that maps to the local admin role.
	AdminRole string           `json:"admin-role" mapstructure:"admin-role"`
	Keycloak  *KeycloakOptions `json:"keycloak" mapstructure:"keycloak"`
	JWT       *JWTOptions      `json:"jwt" mapstructure:"jwt"`
}

// NewOptions creates default auth options.
func NewOptions() *Options {
	return &Options{
		Provider:  ProviderKeycloak,
		AdminRole: "admin",
		Keycloak: &KeycloakOptions{
			URL:      "http://localhost:8080",
			Realm:    "DocVault",
			ClientID: "docvault-api",
			Timeout:  10 * time.Second,
			CacheTTL: time.Minute,
		},
		JWT: &JWTOptions{
			Issuer:  "docvault",
			Expired: 2 * time.Hour,
		},
	}
}

// AddFlags adds flags for auth options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "auth."
	fs.StringVar(&o.Provider, p+"provider", o.Provider, "Identity provider: keycloak or jwt.")
	fs.StringVar(&o.AdminRole, p+"admin-role", o.AdminRole, "Identity provider role granted the admin role.")
	fs.StringVar(&o.Keycloak.URL, p+"keycloak.url", o.Keycloak.URL, "Keycloak base URL.")
	fs.StringVar(&o.Keycloak.Realm, p+"keycloak.realm", o.Keycloak.Realm, "Keycloak realm.")
	fs.StringVar(&o.Keycloak.ClientID, p+"keycloak.client-id", o.Keycloak.ClientID, "Keycloak client id used for introspection.")
	fs.StringVar(&o.Keycloak.ClientSecret, p+"keycloak.client-secret", o.Keycloak.ClientSecret, "Keycloak client secret (prefer KEYCLOAK_CLIENT_SECRET).")
	fs.DurationVar(&o.Keycloak.Timeout, p+"keycloak.timeout", o.Keycloak.Timeout, "Introspection request timeout.")
	fs.DurationVar(&o.Keycloak.CacheTTL, p+"keycloak.cache-ttl", o.Keycloak.CacheTTL, "Introspection cache TTL (0 disables).")
	fs.StringVar(&o.JWT.Key, p+"jwt.key", o.JWT.Key, "HMAC signing key (prefer JWT_KEY).")
	fs.StringVar(&o.JWT.Issuer, p+"jwt.issuer", o.JWT.Issuer, "Expected token issuer.")
	fs.DurationVar(&o.JWT.Expired, p+"jwt.expired", o.JWT.Expired, "Lifetime of tokens signed by the service.")
}

// Complete fills secrets from the environment when not configured.
func (o *Options) Complete() error {
	if o.Keycloak.ClientSecret == "" {
		o.Keycloak.ClientSecret = os.Getenv("KEYCLOAK_CLIENT_SECRET")
	}
	if o.JWT.Key == "" {
		o.JWT.Key = os.Getenv("JWT_KEY")
	}
	return nil
}

// Validate validates the auth options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.AdminRole == "" {
		errs = append(errs, fmt.Errorf("auth: admin-role is required"))
	}
	switch o.Provider {
	case ProviderKeycloak:
		if o.Keycloak.URL == "" || o.Keycloak.Realm == "" || o.Keycloak.ClientID == "" {
			errs = append(errs, fmt.Errorf("auth: keycloak url, realm and client-id are required"))
		}
		if o.Keycloak.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("auth: keycloak timeout must be positive"))
		}
		if o.Keycloak.CacheTTL < 0 {
			errs = append(errs, fmt.Errorf("auth: keycloak cache-ttl must not be negative"))
		}
	case ProviderJWT:
		if len(o.JWT.Key) < MinKeyLength {
			errs = append(errs, fmt.Errorf("auth: jwt key must be at least %d characters", MinKeyLength))
		}
	default:
		errs = append(errs, fmt.Errorf("auth: unsupported provider %q", o.Provider))
	}
	return errs
}
