package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims *models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func adminClaims(issuer string, expires time.Time) *models.JWTClaims {
	return &models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func TestTokenServiceValidateToken(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "registrar"})

	claims, err := svc.ValidateToken(signToken(t, "secret", jwt.SigningMethodHS256, adminClaims("registrar", time.Now().Add(time.Hour))))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenServiceRejectsInvalidTokens(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "registrar"})

	tokens := map[string]string{
		"expired":      signToken(t, "secret", jwt.SigningMethodHS256, adminClaims("registrar", time.Now().Add(-time.Hour))),
		"wrong secret": signToken(t, "other", jwt.SigningMethodHS256, adminClaims("registrar", time.Now().Add(time.Hour))),
		"wrong issuer": signToken(t, "secret", jwt.SigningMethodHS256, adminClaims("someone", time.Now().Add(time.Hour))),
		"wrong alg":    signToken(t, "secret", jwt.SigningMethodHS512, adminClaims("registrar", time.Now().Add(time.Hour))),
		"no role":      signToken(t, "secret", jwt.SigningMethodHS256, &models.JWTClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "registrar"}}),
		"garbage":      "not.a.token",
	}
	for name, token := range tokens {
		_, err := svc.ValidateToken(token)
		require.Error(t, err, name)
		assert.Equal(t, http.StatusUnauthorized, appErrors.FromError(err).Status, name)
	}
}
