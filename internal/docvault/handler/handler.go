// Package handler provides the DocVault HTTP handlers.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kart-io/docvault/pkg/security/auth"
	"github.com/kart-io/docvault/pkg/utils/errors"
)

// subject returns the authenticated user id.
func subject(c *gin.Context) (string, error) {
	id := auth.SubjectFromContext(c.Request.Context())
	if id == "" {
		return "", errors.ErrUnauthorized
	}
	return id, nil
}

// bindError turns a binding or validation failure into a 400.
func bindError(err error) error {
	return errors.ErrValidationFailed.WithMessage(err.Error())
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
