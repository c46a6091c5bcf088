package history

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bionic-mail/backend/internal/models"
	"github.com/bionic-mail/backend/pkg/response"
)

// Handler handles history HTTP endpoints.
type Handler struct {
	store Store
}

// NewHandler creates a history handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// List handles GET /history?limit=N. Returns the most recent records,
// newest first.
func (h *Handler) List(c *gin.Context) {
	limit := DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.UnprocessableEntity(c, "limit must be an integer")
			return
		}
		limit = n
	}
	if limit < 1 || limit > MaxLimit {
		response.UnprocessableEntity(c, "limit must be between 1 and 1000")
		return
	}

	records, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		response.Internal(c, "failed to load email history")
		return
	}
	if records == nil {
		records = []*models.EmailRecord{} // marshal an empty history as [], not null
	}
	response.OK(c, records)
}

// Get handles GET /history/:message_id. Returns one record or 404.
func (h *Handler) Get(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		response.NotFound(c, "email with message ID "+c.Param("message_id")+" not found")
		return
	}
	record, err := h.store.Get(c.Request.Context(), messageID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "email with message ID "+messageID.String()+" not found")
			return
		}
		response.Internal(c, "failed to load email record")
		return
	}
	response.OK(c, record)
}
