package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bionic-mail/backend/config"
	"github.com/bionic-mail/backend/internal/mailer"
	"github.com/bionic-mail/backend/internal/mailer/smtptest"
	"github.com/bionic-mail/backend/internal/models"
)

func healthRouter(client *mailer.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/health", NewHandler(client, "0.1.0").Check)
	return router
}

func TestHealth_RelayReachable(t *testing.T) {
	srv, err := smtptest.NewServer()
	require.NoError(t, err)
	defer srv.Close()

	client := mailer.NewClient(config.SMTPConfig{
		Host: srv.Host(), Port: srv.Port(), TimeoutSec: 2,
	}, false)

	w := httptest.NewRecorder()
	healthRouter(client).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var status models.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "0.1.0", status.Version)
	assert.True(t, status.RelayConnection)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealth_RelayUnreachable(t *testing.T) {
	srv, err := smtptest.NewServer()
	require.NoError(t, err)
	cfg := config.SMTPConfig{Host: srv.Host(), Port: srv.Port(), TimeoutSec: 1}
	srv.Close()

	client := mailer.NewClient(cfg, false)
	w := httptest.NewRecorder()
	healthRouter(client).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var status models.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	assert.False(t, status.RelayConnection)
}
