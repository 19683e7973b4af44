package response

import (
	"github.com/google/uuid"

	"github.com/sangkips/invowise-api/internal/domain/entity"
)

// SessionUser is the signed-in account
type SessionUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// AuthResponse is returned by sign-up, sign-in and refresh
type AuthResponse struct {
	User         SessionUser `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
}

// NewAuthResponse maps hosted auth tokens onto the response
func NewAuthResponse(tokens *entity.AuthTokens) *AuthResponse {
	return &AuthResponse{
		User:         SessionUser{ID: tokens.UserID, Email: tokens.Email},
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresIn,
	}
}

// ClearCookiesResponse reports the outcome of a cookie reset
type ClearCookiesResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Cleared []string `json:"cleared"`
}
