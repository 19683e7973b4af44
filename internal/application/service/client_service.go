package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/pkg/apperror"
	"github.com/sangkips/invowise-api/pkg/pagination"
)

// ClientService handles client-related operations
type ClientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// ClientInput carries the writable client fields. On update a nil field is
// left unchanged.
type ClientInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	City    *string
	State   *string
	ZipCode *string
	Country *string
	TaxID   *string
	Notes   *string
}

// CreateClient creates a new client for the session user
func (s *ClientService) CreateClient(ctx context.Context, input *ClientInput) (*entity.Client, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Name is required"}})
	}

	client := &entity.Client{Country: entity.DefaultCountry}
	applyClientInput(client, input)

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// ListClients lists the session user's clients with page or cursor pagination
func (s *ClientService) ListClients(ctx context.Context, params *pagination.Params, search string) (*pagination.Result[entity.Client], error) {
	search = strings.TrimSpace(search)
	params.Normalize()

	if params.IsCursorBased() {
		if _, err := pagination.DecodeCursor(params.Cursor); err != nil {
			return nil, apperror.NewBadRequestError("Invalid cursor")
		}
		clients, err := s.clientRepo.ListWithCursor(ctx, params, search)
		if err != nil {
			return nil, err
		}
		return pagination.FromCursor(clients, params.Limit, params.Cursor != "",
			func(c entity.Client) (string, time.Time) { return c.ID.String(), c.CreatedAt },
		), nil
	}

	clients, total, err := s.clientRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.FromPage(clients, params.Page, params.PerPage, total), nil
}

// UpdateClient applies a partial update
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, input *ClientInput) (*entity.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Name cannot be empty"}})
	}

	applyClientInput(client, input)
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient soft deletes a client. Its invoices keep referencing it.
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, id)
}

func applyClientInput(client *entity.Client, input *ClientInput) {
	if input.Name != nil {
		client.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		client.Email = optionalString(strings.ToLower(*input.Email))
	}
	if input.Phone != nil {
		client.Phone = optionalString(*input.Phone)
	}
	if input.Address != nil {
		client.Address = optionalString(*input.Address)
	}
	if input.City != nil {
		client.City = optionalString(*input.City)
	}
	if input.State != nil {
		client.State = optionalString(*input.State)
	}
	if input.ZipCode != nil {
		client.ZipCode = optionalString(*input.ZipCode)
	}
	if input.Country != nil {
		if country := strings.TrimSpace(*input.Country); country != "" {
			client.Country = country
		}
	}
	if input.TaxID != nil {
		client.TaxID = optionalString(*input.TaxID)
	}
	if input.Notes != nil {
		client.Notes = optionalString(*input.Notes)
	}
}

// optionalString trims s and maps blank values to nil
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
