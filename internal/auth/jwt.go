package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims holds JWT claims for an API client.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService handles token generation and validation.
type JWTService struct {
	secret        []byte
	expireMinutes int
}

// NewJWTService creates a JWT service.
func NewJWTService(secret string, expireMinutes int) *JWTService {
	return &JWTService{
		secret:        []byte(secret),
		expireMinutes: expireMinutes,
	}
}

// ExpireMinutes returns the configured token lifetime.
func (s *JWTService) ExpireMinutes() int {
	return s.expireMinutes
}

// Generate creates a new signed bearer token for the username.
func (s *JWTService) Generate(username string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.expireMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a token, returning claims or ErrInvalidToken.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
