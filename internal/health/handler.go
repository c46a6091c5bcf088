// Package health reports process status and relay reachability.
package health

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bionic-mail/backend/internal/mailer"
	"github.com/bionic-mail/backend/internal/models"
	"github.com/bionic-mail/backend/pkg/logging"
	"github.com/bionic-mail/backend/pkg/response"
)

const checkTimeout = 5 * time.Second

// Handler handles GET /health.
type Handler struct {
	client  *mailer.Client
	version string
}

// NewHandler creates a health handler.
func NewHandler(client *mailer.Client, version string) *Handler {
	return &Handler{client: client, version: version}
}

// Check handles GET /health. Unauthenticated: reports "healthy" when the
// relay connection probe succeeds and "degraded" when it does not. The
// endpoint itself always answers 200 so probes can read the relay state.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	relayUp := true
	if err := h.client.Check(ctx); err != nil {
		relayUp = false
		logging.FromContext(c.Request.Context()).Warn("relay connection check failed", zap.Error(err))
	}

	status := "healthy"
	if !relayUp {
		status = "degraded"
	}
	response.OK(c, models.HealthStatus{
		Status:          status,
		Version:         h.version,
		Timestamp:       time.Now().UTC(),
		RelayConnection: relayUp,
	})
}
