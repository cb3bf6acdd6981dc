// Package casbin implements authz.Authorizer with a casbin enforcer whose
// policies are stored through the gorm adapter.
package casbin

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	authzopts "github.com/kart-io/docvault/pkg/options/authz"
	"github.com/kart-io/docvault/pkg/security/authz"
)

// DefaultModel matches role subjects, keyMatch2 paths and regex methods.
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies grants viewers the conversational API and admins the
// document API. Admins inherit every viewer permission.
var DefaultPolicies = [][]string{
	{authz.RoleViewer, "/api/v1/me", "GET"},
	{authz.RoleViewer, "/api/v1/conversations", "(GET)|(POST)"},
	{authz.RoleViewer, "/api/v1/conversations/:id/messages", "GET"},
	{authz.RoleViewer, "/api/v1/chat", "POST"},
	{authz.RoleAdmin, "/api/v1/documents", "(GET)|(POST)"},
	{authz.RoleAdmin, "/api/v1/documents/:id", "(GET)|(DELETE)"},
}

// DefaultGroupings lists role inheritance.
var DefaultGroupings = [][]string{
	{authz.RoleAdmin, authz.RoleViewer},
}

var _ authz.Authorizer = (*Authorizer)(nil)

// Authorizer wraps a synced casbin enforcer.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

// New creates the enforcer on db, creating the casbin_rule table if needed,
// and seeds the default policies when opts.SeedPolicies is set.
func New(db *gorm.DB, opts *authzopts.Options) (*Authorizer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create gorm adapter: %w", err)
	}

	var m model.Model
	if opts.ModelPath != "" {
		m, err = model.NewModelFromFile(opts.ModelPath)
	} else {
		m, err = model.NewModelFromString(DefaultModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	if opts.SeedPolicies {
		if rules := missing(DefaultPolicies, e.HasPolicy); len(rules) > 0 {
			if _, err := e.AddPolicies(rules); err != nil {
				return nil, fmt.Errorf("failed to seed policies: %w", err)
			}
		}
		if rules := missing(DefaultGroupings, e.HasGroupingPolicy); len(rules) > 0 {
			if _, err := e.AddGroupingPolicies(rules); err != nil {
				return nil, fmt.Errorf("failed to seed role groupings: %w", err)
			}
		}
	}

	return &Authorizer{enforcer: e}, nil
}

// Authorize implements authz.Authorizer.
func (a *Authorizer) Authorize(_ context.Context, subject, resource, action string) (bool, error) {
	return a.enforcer.Enforce(subject, resource, action)
}

// Enforcer exposes the underlying enforcer for policy administration.
func (a *Authorizer) Enforcer() *casbin.SyncedEnforcer {
	return a.enforcer
}

func missing(rules [][]string, has func(params ...interface{}) (bool, error)) [][]string {
	var out [][]string
	for _, r := range rules {
		params := make([]interface{}, len(r))
		for i, v := range r {
			params[i] = v
		}
		if ok, _ := has(params...); !ok {
			out = append(out, r)
		}
	}
	return out
}
