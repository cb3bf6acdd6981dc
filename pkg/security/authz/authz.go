// Package authz provides role based authorization.
//
// Subjects are local application roles ("admin", "viewer"); resources are
// request paths and actions are HTTP methods. Per-user ownership of
// conversations is enforced by the business layer, not here.
package authz

import (
	"context"
)

// Local application roles.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Authorizer decides whether subject may perform action on resource.
type Authorizer interface {
	Authorize(ctx context.Context, subject, resource, action string) (bool, error)
}

// RoleFor maps identity provider roles to a local role: admin when any
// provider role equals adminRole, viewer otherwise.
func RoleFor(providerRoles []string, adminRole string) string {
	for _, r := range providerRoles {
		if r == adminRole {
			return RoleAdmin
		}
	}
	return RoleViewer
}
