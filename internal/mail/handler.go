package mail

import (
	"github.com/gin-gonic/gin"

	"github.com/bionic-mail/backend/internal/models"
	"github.com/bionic-mail/backend/internal/validation"
	"github.com/bionic-mail/backend/pkg/response"
)

// Handler handles the send HTTP endpoint.
type Handler struct {
	service *Service
}

// NewHandler creates a mail handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send handles POST /send. Validation failures return 422 with the full
// violation list and no side effects; a relay failure returns 200 with a
// failed record so the caller can tell "your request was invalid" from
// "we tried and the relay failed".
func (h *Handler) Send(c *gin.Context) {
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, "invalid request body: "+err.Error())
		return
	}

	req.Normalize()
	if violations := validation.ValidateEmailRequest(&req); len(violations) > 0 {
		response.ValidationFailed(c, violations)
		return
	}

	record, err := h.service.Send(c.Request.Context(), &req)
	if err != nil {
		response.Internal(c, "failed to record email send attempt")
		return
	}
	response.OK(c, record)
}
