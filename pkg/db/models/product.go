package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a priced catalog entry. Both price columns are nullable: rows
// migrated from the legacy single-price shape may briefly carry neither until
// the startup reconciler backfills them. Job lines copy name/unit/price at
// order time, so products referenced by history can be deactivated or removed
// without corrupting old orders.
type Product struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string           `gorm:"column:name;not null"`
	Unit            string           `gorm:"column:unit;not null;default:unit"`
	RetailPrice     *decimal.Decimal `gorm:"column:retail_price;type:numeric(12,2)"`
	ContractorPrice *decimal.Decimal `gorm:"column:contractor_price;type:numeric(12,2)"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
