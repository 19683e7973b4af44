package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, secret string, claims SessionClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(userID uuid.UUID) SessionClaims {
	return SessionClaims{
		Email: "owner@invowise.test",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{DefaultAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestTokenVerifier_Verify(t *testing.T) {
	v := NewTokenVerifier(testSecret, "")
	userID := uuid.New()

	claims, err := v.Verify(signToken(t, testSecret, validClaims(userID)))
	require.NoError(t, err)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, "owner@invowise.test", claims.Email)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	v := NewTokenVerifier(testSecret, "")
	userID := uuid.New()

	expired := validClaims(userID)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongAudience := validClaims(userID)
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}

	noExpiry := validClaims(userID)
	noExpiry.ExpiresAt = nil

	badSubject := validClaims(userID)
	badSubject.Subject = "not-a-uuid"

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "abc.def.ghi"},
		{"wrong secret", signToken(t, "another-secret", validClaims(userID))},
		{"expired", signToken(t, testSecret, expired)},
		{"wrong audience", signToken(t, testSecret, wrongAudience)},
		{"no expiry", signToken(t, testSecret, noExpiry)},
		{"bad subject", signToken(t, testSecret, badSubject)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.Error(t, err)
		})
	}
}
