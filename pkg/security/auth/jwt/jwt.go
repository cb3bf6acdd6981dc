// Package jwt verifies HMAC-signed tokens locally. The claim layout mirrors
// a Keycloak access token so the two providers are interchangeable.
//
// Usage:
//
//	j, err := jwt.New(opts)
//	token, err := j.Sign(claims)
//	claims, err := j.Verify(ctx, token)
package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	authopts "github.com/kart-io/docvault/pkg/options/auth"
	"github.com/kart-io/docvault/pkg/security/auth"
	"github.com/kart-io/docvault/pkg/utils/errors"
)

var _ auth.Authenticator = (*JWT)(nil)

type roleList struct {
	Roles []string `json:"roles,omitempty"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string   `json:"preferred_username,omitempty"`
	Email             string   `json:"email,omitempty"`
	Name              string   `json:"name,omitempty"`
	RealmAccess       roleList `json:"realm_access"`
}

// JWT implements auth.Authenticator with HS256 tokens.
type JWT struct {
	opts   *authopts.JWTOptions
	method jwt.SigningMethod
}

// New creates a JWT authenticator.
func New(opts *authopts.JWTOptions) (*JWT, error) {
	if opts == nil || len(opts.Key) < authopts.MinKeyLength {
		return nil, fmt.Errorf("jwt: key must be at least %d characters", authopts.MinKeyLength)
	}
	return &JWT{opts: opts, method: jwt.SigningMethodHS256}, nil
}

// Type returns the authenticator type.
func (j *JWT) Type() string { return "jwt" }

// Sign issues a token for claims. ExpiresAt defaults to now + Expired.
func (j *JWT) Sign(claims *auth.Claims) (string, error) {
	now := time.Now()
	exp := now.Add(j.opts.Expired)
	if claims.ExpiresAt > 0 {
		exp = time.Unix(claims.ExpiresAt, 0)
	}

	tc := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Issuer:    j.opts.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		PreferredUsername: claims.Username,
		Email:             claims.Email,
		Name:              claims.Name,
		RealmAccess:       roleList{Roles: claims.Roles},
	}

	s, err := jwt.NewWithClaims(j.method, tc).SignedString([]byte(j.opts.Key))
	if err != nil {
		return "", errors.ErrInternal.WithCause(err).WithMessage("failed to sign token")
	}
	return s, nil
}

// Verify validates signature, expiry and issuer and returns the claims.
func (j *JWT) Verify(_ context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, errors.ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != j.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(j.opts.Key), nil
	})
	if err != nil {
		return nil, errors.ErrInvalidToken.WithCause(err)
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.ErrInvalidToken
	}
	if j.opts.Issuer != "" && !tc.VerifyIssuer(j.opts.Issuer, true) {
		return nil, errors.ErrInvalidToken
	}

	claims := &auth.Claims{
		Subject:  tc.Subject,
		Username: tc.PreferredUsername,
		Email:    tc.Email,
		Name:     tc.Name,
		Roles:    auth.MergeRoles(tc.RealmAccess.Roles),
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Unix()
	}
	if !claims.Valid() {
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}
