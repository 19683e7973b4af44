package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/pkg/pagination"
)

// ClientRepository defines the interface for client data operations.
// Every method is scoped to the session user carried by ctx.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns clients with page-based pagination ordered by name
	List(ctx context.Context, params *pagination.Params, search string) ([]entity.Client, int64, error)
	// ListWithCursor returns up to params.Limit+1 clients after the cursor
	ListWithCursor(ctx context.Context, params *pagination.Params, search string) ([]entity.Client, error)
}
