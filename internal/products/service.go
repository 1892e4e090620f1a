package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haulstead/dispatch-backend/internal/pricing"
	"github.com/haulstead/dispatch-backend/pkg/db/models"
	pkgerrors "github.com/haulstead/dispatch-backend/pkg/errors"
)

// CreateProductInput carries the fields for a new catalog product. The
// contractor price is optional; when absent it is derived from retail at the
// standard discount.
type CreateProductInput struct {
	Name            string           `json:"name"`
	Unit            string           `json:"unit"`
	RetailPrice     *decimal.Decimal `json:"retail_price"`
	ContractorPrice *decimal.Decimal `json:"contractor_price"`
	IsActive        *bool            `json:"is_active"`
}

// UpdateProductInput is a partial patch; nil leaves a field unchanged.
type UpdateProductInput struct {
	Name            *string          `json:"name"`
	Unit            *string          `json:"unit"`
	RetailPrice     *decimal.Decimal `json:"retail_price"`
	ContractorPrice *decimal.Decimal `json:"contractor_price"`
	IsActive        *bool            `json:"is_active"`
}

// Service owns admin catalog CRUD. Catalog edits never rewrite persisted job
// lines; those carry their own price snapshots.
type Service struct {
	repo *Repository
}

// NewService builds a product service with the required dependencies.
func NewService(repo *Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.RetailPrice != nil && input.RetailPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retail price cannot be negative")
	}
	if input.ContractorPrice != nil && input.ContractorPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor price cannot be negative")
	}

	unit := input.Unit
	if unit == "" {
		unit = "unit"
	}
	contractor := input.ContractorPrice
	if contractor == nil && input.RetailPrice != nil {
		derived := pricing.DeriveContractorPrice(*input.RetailPrice)
		contractor = &derived
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product := &models.Product{
		ID:              uuid.New(),
		Name:            input.Name,
		Unit:            unit,
		RetailPrice:     input.RetailPrice,
		ContractorPrice: contractor,
		IsActive:        active,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist product")
	}
	return FromModel(created), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	dtos := make([]ProductDTO, len(rows))
	for i := range rows {
		dtos[i] = *FromModel(&rows[i])
	}
	return dtos, nil
}

// Update patches a product. A retail price change without an explicit
// contractor price re-derives the contractor price so the standard discount
// tracks retail.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Unit != nil {
		updates["unit"] = *input.Unit
	}
	if input.RetailPrice != nil {
		if input.RetailPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "retail price cannot be negative")
		}
		updates["retail_price"] = *input.RetailPrice
		if input.ContractorPrice == nil {
			updates["contractor_price"] = pricing.DeriveContractorPrice(*input.RetailPrice)
		}
	}
	if input.ContractorPrice != nil {
		if input.ContractorPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor price cannot be negative")
		}
		updates["contractor_price"] = *input.ContractorPrice
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}
