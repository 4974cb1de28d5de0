package medication

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubocare/medtrack/pkg/types"
)

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	claims := &JWTClaims{
		UserID:   "user-1",
		Username: "amina",
		Role:     string(types.RolePatient),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateJWT_ValidToken(t *testing.T) {
	validator := NewTokenValidator("test-secret")
	token := signToken(t, "test-secret", time.Now().Add(time.Hour))

	claims, err := validator.ValidateJWT(token)

	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "amina", claims.Username)
	assert.Equal(t, types.RolePatient, claims.Role)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	validator := NewTokenValidator("test-secret")
	token := signToken(t, "other-secret", time.Now().Add(time.Hour))

	_, err := validator.ValidateJWT(token)

	assert.Error(t, err)
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	validator := NewTokenValidator("test-secret")
	token := signToken(t, "test-secret", time.Now().Add(-time.Hour))

	_, err := validator.ValidateJWT(token)

	assert.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	validator := NewTokenValidator("test-secret")

	_, err := validator.ValidateJWT("not-a-token")

	assert.Error(t, err)
}
