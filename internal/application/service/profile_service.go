package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/pkg/apperror"
)

// ProfileService handles the signed-in user's profile
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// GetProfile returns the profile of the given user
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NewNotFoundError("Profile")
	}
	return profile, nil
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID      uuid.UUID
	Email       string
	FullName    *string
	CompanyName *string
}

// UpdateProfile changes the display fields of the profile, creating it when
// the account signed up before profiles were mirrored
func (s *ProfileService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &entity.Profile{ID: input.UserID, Email: input.Email}
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		profile.FullName = &name
	}
	if input.CompanyName != nil {
		company := strings.TrimSpace(*input.CompanyName)
		profile.CompanyName = &company
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
