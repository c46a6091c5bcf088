package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bionic-mail/backend/pkg/response"
	"github.com/bionic-mail/backend/pkg/utils"
)

// TokenRequest is the form body for POST /token.
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// TokenResponse is the issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Handler handles token issuance against the configured API credential.
type Handler struct {
	username     string
	passwordHash string
	jwt          *JWTService
	logger       *zap.Logger
}

// NewHandler creates an auth handler. The password is hashed once here so the
// plain credential is not kept around after startup.
func NewHandler(username, password string, jwt *JWTService, logger *zap.Logger) (*Handler, error) {
	hash, err := utils.HashCredential(password)
	if err != nil {
		return nil, err
	}
	return &Handler{username: username, passwordHash: hash, jwt: jwt, logger: logger}, nil
}

// Token handles POST /token. Accepts form credentials and issues a signed
// bearer token with an expiry.
func (h *Handler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}

	if req.Username != h.username || !utils.CheckCredential(req.Password, h.passwordHash) {
		h.logger.Warn("token request with invalid credentials", zap.String("username", req.Username))
		response.Unauthorized(c, "incorrect username or password")
		return
	}

	token, err := h.jwt.Generate(req.Username)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   h.jwt.ExpireMinutes() * 60,
	})
}
