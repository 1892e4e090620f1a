package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/haulstead/dispatch-backend/pkg/db/models"
	pkgerrors "github.com/haulstead/dispatch-backend/pkg/errors"
)

// CreateCustomerInput carries the fields for a new customer account.
type CreateCustomerInput struct {
	Name       string   `json:"name"`
	Phone      *string  `json:"phone"`
	Email      *string  `json:"email"`
	Contractor bool     `json:"contractor"`
	Addresses  []string `json:"addresses"`
	Notes      *string  `json:"notes"`
}

// UpdateCustomerInput is a partial patch; nil leaves a field unchanged.
type UpdateCustomerInput struct {
	Name       *string   `json:"name"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	Contractor *bool     `json:"contractor"`
	Addresses  *[]string `json:"addresses"`
	Notes      *string   `json:"notes"`
}

// Service owns customer account CRUD. Role gating happens at the router; jobs
// keep a denormalized name/phone snapshot, so deleting a customer never
// corrupts order history.
type Service struct {
	repo *Repository
}

// NewService builds a customer service with the required dependencies.
func NewService(repo *Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) Create(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	customer := &models.Customer{
		ID:         uuid.New(),
		Name:       input.Name,
		Phone:      input.Phone,
		Email:      input.Email,
		Contractor: input.Contractor,
		Addresses:  pq.StringArray(input.Addresses),
		Notes:      input.Notes,
	}
	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist customer")
	}
	return FromModel(created), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}
	return FromModel(customer), nil
}

func (s *Service) List(ctx context.Context, nameQuery string) ([]CustomerDTO, error) {
	rows, err := s.repo.List(ctx, nameQuery)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}
	dtos := make([]CustomerDTO, len(rows))
	for i := range rows {
		dtos[i] = *FromModel(&rows[i])
	}
	return dtos, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Contractor != nil {
		updates["contractor"] = *input.Contractor
	}
	if input.Addresses != nil {
		updates["addresses"] = pq.StringArray(*input.Addresses)
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update customer")
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete customer")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}
