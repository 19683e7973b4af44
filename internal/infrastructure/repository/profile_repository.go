package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	domainRepo "github.com/sangkips/invowise-api/internal/domain/repository"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) domainRepo.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &profile, err
}

func (r *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	columns := []string{"email", "last_login_at", "updated_at"}
	if profile.FullName != nil {
		columns = append(columns, "full_name")
	}
	if profile.CompanyName != nil {
		columns = append(columns, "company_name")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(profile).Error
}
