package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", 30)

	token, err := svc.Generate("admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTValidate_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", 30).Generate("admin")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 30).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTValidate_Expired(t *testing.T) {
	token, err := NewJWTService("test-secret", -1).Generate("admin")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", -1).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTValidate_Garbage(t *testing.T) {
	_, err := NewJWTService("test-secret", 30).Validate("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
