package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/haulstead/dispatch-backend/pkg/db/models"
)

// CustomerDTO is the customer account shape exposed in API responses.
type CustomerDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Contractor bool      `json:"contractor"`
	Addresses  []string  `json:"addresses"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromModel maps the persisted customer onto the response shape. Addresses
// always serialize as an array, never null.
func FromModel(m *models.Customer) *CustomerDTO {
	if m == nil {
		return nil
	}

	addresses := make([]string, len(m.Addresses))
	copy(addresses, m.Addresses)

	return &CustomerDTO{
		ID:         m.ID,
		Name:       m.Name,
		Phone:      m.Phone,
		Email:      m.Email,
		Contractor: m.Contractor,
		Addresses:  addresses,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
