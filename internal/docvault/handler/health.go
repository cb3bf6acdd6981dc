package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/docvault/pkg/storage"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/response"
)

// HealthHandler serves the public liveness and readiness endpoints.
type HealthHandler struct {
	health *storage.Manager
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(health *storage.Manager) *HealthHandler {
	return &HealthHandler{health: health}
}

// Root reports that the API is up.
func (h *HealthHandler) Root(c *gin.Context) {
	response.OK(c, gin.H{"message": "API Online"})
}

// Healthz pings every registered backend.
func (h *HealthHandler) Healthz(c *gin.Context) {
	statuses := h.health.HealthCheckAll(c.Request.Context())
	if storage.AllHealthy(statuses) {
		response.OK(c, statuses)
		return
	}

	var down []string
	for _, s := range statuses {
		if !s.Healthy {
			down = append(down, s.Name)
		}
	}
	response.Fail(c, errors.ErrServiceUnavailable.WithMessage("unhealthy: "+strings.Join(down, ", ")))
}
