package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Customer is a billing/delivery account owned by the office. The contractor
// flag selects the pricing tier applied by pricing lookups.
type Customer struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string         `gorm:"column:name;not null"`
	Phone      *string        `gorm:"column:phone"`
	Email      *string        `gorm:"column:email"`
	Contractor bool           `gorm:"column:contractor;not null;default:false"`
	Addresses  pq.StringArray `gorm:"column:addresses;type:text[];default:ARRAY[]::text[]"`
	Notes      *string        `gorm:"column:notes"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
