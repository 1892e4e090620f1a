package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstead/dispatch-backend/pkg/enums"
)

// JobProduct is one line item on a job. Product name, unit, and price are
// copied at order time; later catalog edits never alter persisted lines.
type JobProduct struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JobID       uuid.UUID       `gorm:"column:job_id;type:uuid;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(12,2);not null"`
	Unit        string          `gorm:"column:unit;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null;default:0"`
	PriceType   enums.PriceTier `gorm:"column:price_type;type:text;not null;default:retail"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
