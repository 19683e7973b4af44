package supabase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	supa "github.com/nedpals/supabase-go"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	domainRepo "github.com/sangkips/invowise-api/internal/domain/repository"
)

type authProvider struct {
	client *supa.Client
}

// NewAuthProvider delegates sign-up, sign-in and session management to the hosted auth
func NewAuthProvider(client *supa.Client) domainRepo.AuthProvider {
	return &authProvider{client: client}
}

func (p *authProvider) SignUp(ctx context.Context, email, password string) error {
	_, err := p.client.Auth.SignUp(ctx, supa.UserCredentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return errors.Wrap(err, "failed to sign up")
	}
	return nil
}

func (p *authProvider) SignIn(ctx context.Context, email, password string) (*entity.AuthTokens, error) {
	details, err := p.client.Auth.SignIn(ctx, supa.UserCredentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign in")
	}
	return toTokens(details)
}

func (p *authProvider) Refresh(ctx context.Context, accessToken, refreshToken string) (*entity.AuthTokens, error) {
	details, err := p.client.Auth.RefreshUser(ctx, accessToken, refreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to refresh session")
	}
	return toTokens(details)
}

func (p *authProvider) SignOut(ctx context.Context, accessToken string) error {
	if err := p.client.Auth.SignOut(ctx, accessToken); err != nil {
		return errors.Wrap(err, "failed to sign out")
	}
	return nil
}

func toTokens(details *supa.AuthenticatedDetails) (*entity.AuthTokens, error) {
	if details == nil {
		return nil, errors.New("empty auth response")
	}
	userID, err := uuid.Parse(details.User.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid user id %q", details.User.ID)
	}
	return &entity.AuthTokens{
		AccessToken:  details.AccessToken,
		RefreshToken: details.RefreshToken,
		TokenType:    details.TokenType,
		ExpiresIn:    details.ExpiresIn,
		UserID:       userID,
		Email:        details.User.Email,
	}, nil
}
