package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sangkips/invowise-api/internal/domain/entity"
)

// ProfileRepository stores the local mirror of hosted auth accounts
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	// Upsert inserts the profile or updates email, name and last login
	Upsert(ctx context.Context, profile *entity.Profile) error
}
