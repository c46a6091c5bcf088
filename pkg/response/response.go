package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the standard error payload.
type ErrorBody struct {
	Error string `json:"error"`
}

// OK sends a 200 JSON response with the payload as-is.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: err})
}

// Unauthorized sends 401 with a bearer challenge.
func Unauthorized(c *gin.Context, err string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, ErrorBody{Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, ErrorBody{Error: err})
}

// UnprocessableEntity sends 422 with error message.
func UnprocessableEntity(c *gin.Context, err string) {
	c.JSON(http.StatusUnprocessableEntity, ErrorBody{Error: err})
}

// ValidationFailed sends 422 carrying the full list of violations so the
// caller can fix every problem in one round trip.
func ValidationFailed(c *gin.Context, violations interface{}) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":      "validation failed",
		"violations": violations,
	})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: err})
}
