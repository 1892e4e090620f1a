package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstead/dispatch-backend/pkg/db/models"
)

// ProductDTO is the catalog entry shape exposed in API responses. Price
// fields stay nullable so rows awaiting the startup backfill render honestly.
type ProductDTO struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Unit            string           `json:"unit"`
	RetailPrice     *decimal.Decimal `json:"retail_price"`
	ContractorPrice *decimal.Decimal `json:"contractor_price"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// FromModel maps the persisted product onto the response shape.
func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	return &ProductDTO{
		ID:              m.ID,
		Name:            m.Name,
		Unit:            m.Unit,
		RetailPrice:     m.RetailPrice,
		ContractorPrice: m.ContractorPrice,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
