package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository loads product rows using only the columns the capability reports
// as present, so reads keep working across every schema generation.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func selectColumns(capability Capability) string {
	cols := []string{"id", "name", "unit", "is_active"}
	if capability.HasRetail {
		cols = append(cols, "retail_price")
	}
	if capability.HasContractor {
		cols = append(cols, "contractor_price")
	}
	if capability.HasLegacy {
		cols = append(cols, "price_per_unit")
	}
	return strings.Join(cols, ", ")
}

// FindPriceRow loads one product's price row by id.
func (r *Repository) FindPriceRow(ctx context.Context, id uuid.UUID, capability Capability) (*PriceRow, error) {
	var row PriceRow
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = ?", selectColumns(capability))
	result := r.db.WithContext(ctx).Raw(query, id).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// ListActivePriceRows loads every active product's price row, ordered by name.
func (r *Repository) ListActivePriceRows(ctx context.Context, capability Capability) ([]PriceRow, error) {
	var rows []PriceRow
	query := fmt.Sprintf("SELECT %s FROM products WHERE is_active = ? ORDER BY name ASC", selectColumns(capability))
	if err := r.db.WithContext(ctx).Raw(query, true).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
