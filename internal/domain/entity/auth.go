package entity

import "github.com/google/uuid"

// AuthTokens is the session issued by the hosted auth after sign-in or refresh
type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
}
