package jwt

import (
	"context"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authopts "github.com/kart-io/docvault/pkg/options/auth"
	"github.com/kart-io/docvault/pkg/security/auth"
	"github.com/kart-io/docvault/pkg/utils/errors"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newJWT(t *testing.T) *JWT {
	t.Helper()
	j, err := New(&authopts.JWTOptions{Key: testKey, Issuer: "docvault", Expired: time.Hour})
	require.NoError(t, err)
	return j
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New(&authopts.JWTOptions{Key: "short"})
	assert.Error(t, err)
}

func TestSignAndVerify(t *testing.T) {
	j := newJWT(t)
	token, err := j.Sign(&auth.Claims{Subject: "u-1", Username: "ana", Roles: []string{"admin", "admin", "viewer"}})
	require.NoError(t, err)

	claims, err := j.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, []string{"admin", "viewer"}, claims.Roles)
	assert.True(t, claims.HasRole("admin"))
}

func TestVerifyFailures(t *testing.T) {
	j := newJWT(t)

	expired, err := j.Sign(&auth.Claims{Subject: "u-1", ExpiresAt: time.Now().Add(-time.Minute).Unix()})
	require.NoError(t, err)

	other, err := New(&authopts.JWTOptions{Key: "ffffffffffffffffffffffffffffffff", Issuer: "docvault", Expired: time.Hour})
	require.NoError(t, err)
	foreign, err := other.Sign(&auth.Claims{Subject: "u-1"})
	require.NoError(t, err)

	wrongIssuer, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   "u-1",
		Issuer:    "someone-else",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testKey))
	require.NoError(t, err)

	noSubject, err := j.Sign(&auth.Claims{})
	require.NoError(t, err)

	tests := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"expired":      expired,
		"wrong key":    foreign,
		"wrong issuer": wrongIssuer,
		"no subject":   noSubject,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := j.Verify(context.Background(), token)
			assert.ErrorIs(t, err, errors.ErrInvalidToken)
		})
	}
}
