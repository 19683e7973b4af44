package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	domainRepo "github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/pkg/pagination"
)

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	session, ok := GetSession(ctx)
	if !ok {
		return ErrNoSession
	}
	client.UserID = session.UserID
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).Scopes(UserScope(ctx)).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &client, err
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Scopes(UserScope(ctx)).Model(client).
		Select("*").Omit("UserID", "CreatedAt", "Invoices").
		Updates(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(UserScope(ctx)).Delete(&entity.Client{}, "id = ?", id).Error
}

func (r *clientRepository) search(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	like := "%" + search + "%"
	return query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
}

func (r *clientRepository) List(ctx context.Context, params *pagination.Params, search string) ([]entity.Client, int64, error) {
	var clients []entity.Client
	var total int64

	query := r.search(r.db.WithContext(ctx).Model(&entity.Client{}).Scopes(UserScope(ctx)), search)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Normalize()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&clients).Error

	return clients, total, err
}

// ListWithCursor fetches limit+1 rows so the caller can detect another page
func (r *clientRepository) ListWithCursor(ctx context.Context, params *pagination.Params, search string) ([]entity.Client, error) {
	var clients []entity.Client

	params.Normalize()
	query := r.search(r.db.WithContext(ctx).Model(&entity.Client{}).Scopes(UserScope(ctx)), search)

	cursor, err := pagination.DecodeCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	err = query.Limit(params.Limit + 1).
		Order("created_at ASC, id ASC").
		Find(&clients).Error

	return clients, err
}
