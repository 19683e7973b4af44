package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/pkg/apperror"
	"github.com/sangkips/invowise-api/pkg/logger"
)

// AuthService signs users in through the hosted auth and keeps the local
// profile mirror up to date
type AuthService struct {
	provider    repository.AuthProvider
	profileRepo repository.ProfileRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(provider repository.AuthProvider, profileRepo repository.ProfileRepository, log *logger.Logger) *AuthService {
	return &AuthService{
		provider:    provider,
		profileRepo: profileRepo,
		log:         log.Named("auth"),
		now:         time.Now,
	}
}

// SignUpInput represents the sign-up input
type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

// SignInInput represents the sign-in input
type SignInInput struct {
	Email    string
	Password string
}

// SignUp creates the hosted account and signs it in right away
func (s *AuthService) SignUp(ctx context.Context, input *SignUpInput) (*entity.AuthTokens, error) {
	email := normalizeEmail(input.Email)
	if err := s.provider.SignUp(ctx, email, input.Password); err != nil {
		s.log.Warnw("sign up rejected", "email", email, "error", err)
		return nil, apperror.NewBadRequestError("Unable to create account")
	}

	tokens, err := s.provider.SignIn(ctx, email, input.Password)
	if err != nil {
		s.log.Warnw("sign in after sign up failed", "email", email, "error", err)
		return nil, apperror.NewUnauthorizedError("Account created, please confirm your email and sign in")
	}

	var fullName *string
	if name := strings.TrimSpace(input.FullName); name != "" {
		fullName = &name
	}
	s.syncProfile(ctx, tokens, fullName)
	return tokens, nil
}

// SignIn authenticates with email and password
func (s *AuthService) SignIn(ctx context.Context, input *SignInInput) (*entity.AuthTokens, error) {
	tokens, err := s.provider.SignIn(ctx, normalizeEmail(input.Email), input.Password)
	if err != nil {
		s.log.Infow("sign in failed", "error", err)
		return nil, apperror.NewUnauthorizedError("Invalid email or password")
	}
	s.syncProfile(ctx, tokens, nil)
	return tokens, nil
}

// Refresh exchanges a refresh token for a new session
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*entity.AuthTokens, error) {
	if refreshToken == "" {
		return nil, apperror.NewBadRequestError("Refresh token is required")
	}
	tokens, err := s.provider.Refresh(ctx, accessToken, refreshToken)
	if err != nil {
		s.log.Infow("refresh failed", "error", err)
		return nil, apperror.ErrInvalidToken
	}
	return tokens, nil
}

// SignOut revokes the session at the hosted auth. Failures are logged only,
// the caller clears its cookies either way.
func (s *AuthService) SignOut(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		s.log.Warnw("sign out failed", "error", err)
	}
}

// syncProfile records the login on the local profile. The session is already
// valid at this point, so a failure here does not fail the sign-in.
func (s *AuthService) syncProfile(ctx context.Context, tokens *entity.AuthTokens, fullName *string) {
	if tokens.UserID == uuid.Nil {
		return
	}
	now := s.now()
	profile := &entity.Profile{
		ID:          tokens.UserID,
		Email:       tokens.Email,
		FullName:    fullName,
		LastLoginAt: &now,
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		s.log.Errorw("profile sync failed", "user_id", tokens.UserID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
