package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstead/dispatch-backend/pkg/enums"
)

// PricedProduct is one catalog entry annotated with the price the given
// customer would pay right now.
type PricedProduct struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	PriceType    enums.PriceTier `json:"price_type"`
}

// ResolvedPrice is the outcome of a single (customer, product) lookup.
type ResolvedPrice struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Tier      enums.PriceTier `json:"price_type"`
}
