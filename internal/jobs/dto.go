package jobs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstead/dispatch-backend/pkg/db/models"
	"github.com/haulstead/dispatch-backend/pkg/enums"
)

// Actor identifies who is performing a job operation. Field-level write
// permissions depend on both the role and, for drivers, the assignment.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// LineInput is one requested line item. Prices are taken as given: a non-zero
// total is trusted verbatim, a non-zero unit price yields total = unit * qty,
// and a fully unpriced line persists at zero. The catalog is never consulted
// here; callers wanting catalog prices use the pricing preview endpoint first.
type LineInput struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	PriceType   enums.PriceTier `json:"price_type"`
}

// CreateJobInput carries the header fields and line items for a new job.
type CreateJobInput struct {
	CustomerID         *uuid.UUID       `json:"customer_id"`
	CustomerName       string           `json:"customer_name"`
	CustomerPhone      *string          `json:"customer_phone"`
	Address            string           `json:"address"`
	DeliveryDate       time.Time        `json:"delivery_date"`
	Status             *enums.JobStatus `json:"status"`
	Paid               bool             `json:"paid"`
	PaymentReceived    decimal.Decimal  `json:"payment_received"`
	TotalAmount        decimal.Decimal  `json:"total_amount"`
	ContractorDiscount bool             `json:"contractor_discount"`
	Notes              *string          `json:"notes"`
	AssignedDriverID   *uuid.UUID       `json:"assigned_driver_id"`
	Lines              []LineInput      `json:"products"`
}

// UpdateJobInput is a typed partial patch of the job header. Nil means "leave
// unchanged"; line items cannot be edited through this operation.
type UpdateJobInput struct {
	CustomerID         *uuid.UUID       `json:"customer_id"`
	CustomerName       *string          `json:"customer_name"`
	CustomerPhone      *string          `json:"customer_phone"`
	Address            *string          `json:"address"`
	DeliveryDate       *time.Time       `json:"delivery_date"`
	Status             *enums.JobStatus `json:"status"`
	Paid               *bool            `json:"paid"`
	PaymentReceived    *decimal.Decimal `json:"payment_received"`
	TotalAmount        *decimal.Decimal `json:"total_amount"`
	ContractorDiscount *bool            `json:"contractor_discount"`
	Notes              *string          `json:"notes"`
	DriverNotes        *string          `json:"driver_notes"`
	AssignedDriverID   *uuid.UUID       `json:"assigned_driver_id"`
}

// touchesNonDriverFields reports whether the patch writes anything outside the
// driver-writable set {status, driver_notes, payment_received}.
func (p UpdateJobInput) touchesNonDriverFields() bool {
	return p.CustomerID != nil ||
		p.CustomerName != nil ||
		p.CustomerPhone != nil ||
		p.Address != nil ||
		p.DeliveryDate != nil ||
		p.Paid != nil ||
		p.TotalAmount != nil ||
		p.ContractorDiscount != nil ||
		p.Notes != nil ||
		p.AssignedDriverID != nil
}

// Filters narrows job listings.
type Filters struct {
	Status       *enums.JobStatus
	CustomerID   *uuid.UUID
	DriverID     *uuid.UUID
	DeliveryFrom *time.Time
	DeliveryTo   *time.Time
}

// JobLine is one persisted line item as exposed in API responses.
type JobLine struct {
	ID          uuid.UUID       `json:"id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	PriceType   enums.PriceTier `json:"price_type"`
}

// JobDetail is a job with its lines plus joined-in display names.
type JobDetail struct {
	ID                 uuid.UUID       `json:"id"`
	CustomerID         *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName       string          `json:"customer_name"`
	CustomerPhone      *string         `json:"customer_phone,omitempty"`
	Address            string          `json:"address"`
	DeliveryDate       time.Time       `json:"delivery_date"`
	Status             enums.JobStatus `json:"status"`
	Paid               bool            `json:"paid"`
	PaymentReceived    decimal.Decimal `json:"payment_received"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	ContractorDiscount bool            `json:"contractor_discount"`
	Notes              *string         `json:"notes,omitempty"`
	DriverNotes        *string         `json:"driver_notes,omitempty"`
	CreatedBy          *uuid.UUID      `json:"created_by,omitempty"`
	CreatedByName      *string         `json:"created_by_name,omitempty"`
	AssignedDriverID   *uuid.UUID      `json:"assigned_driver_id,omitempty"`
	DriverName         *string         `json:"driver_name,omitempty"`
	Items              []JobLine       `json:"products"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// DetailFromModel maps a persisted job and its preloaded lines into the
// response shape. Display names are filled in separately.
func DetailFromModel(m *models.Job) *JobDetail {
	if m == nil {
		return nil
	}

	items := make([]JobLine, len(m.Items))
	for i, line := range m.Items {
		items[i] = JobLine{
			ID:          line.ID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
			PriceType:   line.PriceType,
		}
	}

	return &JobDetail{
		ID:                 m.ID,
		CustomerID:         m.CustomerID,
		CustomerName:       m.CustomerName,
		CustomerPhone:      m.CustomerPhone,
		Address:            m.Address,
		DeliveryDate:       m.DeliveryDate,
		Status:             m.Status,
		Paid:               m.Paid,
		PaymentReceived:    m.PaymentReceived,
		TotalAmount:        m.TotalAmount,
		ContractorDiscount: m.ContractorDiscount,
		Notes:              m.Notes,
		DriverNotes:        m.DriverNotes,
		CreatedBy:          m.CreatedBy,
		AssignedDriverID:   m.AssignedDriverID,
		Items:              items,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
