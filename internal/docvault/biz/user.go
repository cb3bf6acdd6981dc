package biz

import (
	"context"
	"errors"

	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/internal/model"
	"github.com/kart-io/docvault/pkg/security/auth"
	"github.com/kart-io/docvault/pkg/security/authz"
	apierrors "github.com/kart-io/docvault/pkg/utils/errors"
)

// UserService keeps the local user table in step with the identity
// provider.
type UserService struct {
	store     store.Factory
	adminRole string
}

// NewUserService creates the service. adminRole is the provider role that
// maps to the local admin role.
func NewUserService(ds store.Factory, adminRole string) *UserService {
	if adminRole == "" {
		adminRole = authz.RoleAdmin
	}
	return &UserService{store: ds, adminRole: adminRole}
}

// Sync derives the local role from the claims and upserts the user. The
// row is written only when something changed.
func (s *UserService) Sync(ctx context.Context, claims *auth.Claims) (string, error) {
	if claims == nil || claims.Subject == "" {
		return "", apierrors.ErrUnauthorized
	}

	want := &model.User{
		ID:       claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		FullName: claims.Name,
		Role:     authz.RoleFor(claims.Roles, s.adminRole),
	}

	current, err := s.store.Users().Get(ctx, claims.Subject)
	switch {
	case errors.Is(err, apierrors.ErrUserNotFound):
		err = s.store.Users().Create(ctx, want)
		if errors.Is(err, apierrors.ErrConflict) {
			// a concurrent request created it first
			return want.Role, nil
		}
		if err != nil {
			return "", err
		}
		logger.Infow("user registered", "user_id", want.ID, "role", want.Role)
		return want.Role, nil
	case err != nil:
		return "", err
	}

	if sameUser(current, want) {
		return want.Role, nil
	}
	if err := s.store.Users().Update(ctx, want); err != nil {
		return "", err
	}
	if current.Role != want.Role {
		logger.Infow("user role changed", "user_id", want.ID, "from", current.Role, "to", want.Role)
	}
	return want.Role, nil
}

// Get returns a user.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.store.Users().Get(ctx, id)
}

func sameUser(a, b *model.User) bool {
	return a.Role == b.Role && a.Username == b.Username && a.Email == b.Email && a.FullName == b.FullName
}
