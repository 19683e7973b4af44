package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultAudience is the audience claim of tokens issued to signed-in users
const DefaultAudience = "authenticated"

// SessionClaims represents the claims of an access token issued by the hosted auth
type SessionClaims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim
func (c *SessionClaims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, errors.New("invalid user ID in token")
	}
	return id, nil
}

// TokenVerifier validates access tokens signed with the project JWT secret
type TokenVerifier struct {
	secretKey []byte
	audience  string
	leeway    time.Duration
}

// NewTokenVerifier creates a verifier. An empty audience defaults to "authenticated".
func NewTokenVerifier(secret, audience string) *TokenVerifier {
	if audience == "" {
		audience = DefaultAudience
	}
	return &TokenVerifier{
		secretKey: []byte(secret),
		audience:  audience,
		leeway:    30 * time.Second,
	}
}

// Verify validates an access token and returns its claims
func (v *TokenVerifier) Verify(tokenString string) (*SessionClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secretKey, nil
	},
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}

	return claims, nil
}
