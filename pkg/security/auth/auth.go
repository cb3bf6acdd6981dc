// Package auth defines how bearer tokens are turned into verified identities.
//
// The authentication flow:
//  1. The client obtains an access token from the identity provider.
//  2. The token is sent as "Authorization: Bearer <token>".
//  3. Authenticator.Verify validates it and returns the Claims.
//  4. Claims are injected into the request context for handlers.
package auth

import (
	"context"
	"slices"
	"time"
)

// Authenticator verifies access tokens.
type Authenticator interface {
	// Verify validates the token and returns its claims. Any failure is
	// reported as errors.ErrInvalidToken.
	Verify(ctx context.Context, token string) (*Claims, error)

	// Type returns the authenticator type ("keycloak", "jwt").
	Type() string
}

// Claims is the identity carried by a verified token.
type Claims struct {
	// Subject is the identity provider's stable user id.
	Subject  string   `json:"sub"`
	Username string   `json:"preferred_username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	// ExpiresAt is the expiration time (Unix seconds), 0 when unknown.
	ExpiresAt int64 `json:"exp,omitempty"`
}

// Valid reports whether the claims carry a subject and are not expired.
func (c *Claims) Valid() bool {
	if c == nil || c.Subject == "" {
		return false
	}
	return c.ExpiresAt == 0 || time.Now().Unix() <= c.ExpiresAt
}

// HasRole reports whether the provider granted role.
func (c *Claims) HasRole(role string) bool {
	return c != nil && slices.Contains(c.Roles, role)
}

// MergeRoles returns the union of the role lists, keeping first-seen order.
func MergeRoles(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lists {
		for _, r := range l {
			if _, ok := seen[r]; ok || r == "" {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
