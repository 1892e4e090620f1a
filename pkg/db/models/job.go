package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstead/dispatch-backend/pkg/enums"
)

// Job is one scheduled delivery order. Customer name and phone are denormalized
// snapshots taken at creation so the job stays readable if the customer record
// later changes or is deleted.
type Job struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID         *uuid.UUID      `gorm:"column:customer_id;type:uuid"`
	CustomerName       string          `gorm:"column:customer_name;not null"`
	CustomerPhone      *string         `gorm:"column:customer_phone"`
	Address            string          `gorm:"column:address;not null"`
	DeliveryDate       time.Time       `gorm:"column:delivery_date;not null"`
	Status             enums.JobStatus `gorm:"column:status;type:text;not null;default:scheduled"`
	Paid               bool            `gorm:"column:paid;not null;default:false"`
	PaymentReceived    decimal.Decimal `gorm:"column:payment_received;type:numeric(12,2);not null;default:0"`
	TotalAmount        decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	ContractorDiscount bool            `gorm:"column:contractor_discount;not null;default:false"`
	Notes              *string         `gorm:"column:notes"`
	DriverNotes        *string         `gorm:"column:driver_notes"`
	CreatedBy          *uuid.UUID      `gorm:"column:created_by;type:uuid"`
	AssignedDriverID   *uuid.UUID      `gorm:"column:assigned_driver_id;type:uuid"`
	Items              []JobProduct    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
