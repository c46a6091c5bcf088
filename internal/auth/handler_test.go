package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTokenRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtService := NewJWTService("test-secret", 30)
	handler, err := NewHandler("admin", "s3cret", jwtService, zap.NewNop())
	require.NoError(t, err)
	router := gin.New()
	router.POST("/api/v1/token", handler.Token)
	return router
}

func postToken(router *gin.Engine, username, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestToken_ValidCredentials(t *testing.T) {
	router := newTokenRouter(t)

	w := postToken(router, "admin", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)

	var body TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)
	assert.Equal(t, 30*60, body.ExpiresIn)

	// Issued token validates against the same service.
	claims, err := NewJWTService("test-secret", 30).Validate(body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestToken_WrongPassword(t *testing.T) {
	router := newTokenRouter(t)
	w := postToken(router, "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestToken_UnknownUser(t *testing.T) {
	router := newTokenRouter(t)
	w := postToken(router, "nobody", "s3cret")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestToken_MissingFields(t *testing.T) {
	router := newTokenRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
