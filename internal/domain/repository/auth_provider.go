package repository

import (
	"context"

	"github.com/sangkips/invowise-api/internal/domain/entity"
)

// AuthProvider is the hosted authentication backend. Passwords never reach
// the local database.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (*entity.AuthTokens, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*entity.AuthTokens, error)
	SignOut(ctx context.Context, accessToken string) error
}
