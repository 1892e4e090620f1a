package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haulstead/dispatch-backend/pkg/enums"
)

// contractorRatio is the discount applied when a contractor price has to be
// derived from the retail price.
var contractorRatio = decimal.RequireFromString("0.9")

// PriceRow is a product row fetched with whichever price columns currently
// exist. Columns absent from the live schema scan as nil.
type PriceRow struct {
	ID          uuid.UUID        `gorm:"column:id"`
	Name        string           `gorm:"column:name"`
	Unit        string           `gorm:"column:unit"`
	IsActive    bool             `gorm:"column:is_active"`
	RetailPrice *decimal.Decimal `gorm:"column:retail_price"`
	Contractor  *decimal.Decimal `gorm:"column:contractor_price"`
	LegacyPrice *decimal.Decimal `gorm:"column:price_per_unit"`
}

// ReadPrice returns the best available amount for the requested tier given the
// current schema capability, and the tier that produced it. Missing price data
// is not an error: the chain falls through tier column, legacy column, scaled
// retail, and finally a zero retail price, so order flows never hard-fail on
// pricing metadata gaps.
func ReadPrice(row PriceRow, tier enums.PriceTier, capability Capability) (decimal.Decimal, enums.PriceTier) {
	if !tier.IsValid() {
		tier = enums.PriceTierRetail
	}

	if tier == enums.PriceTierContractor {
		if capability.HasContractor && row.Contractor != nil {
			return *row.Contractor, enums.PriceTierContractor
		}
	} else if capability.HasRetail && row.RetailPrice != nil {
		return *row.RetailPrice, enums.PriceTierRetail
	}

	if capability.HasLegacy && row.LegacyPrice != nil {
		return *row.LegacyPrice, tier
	}

	if tier == enums.PriceTierContractor && capability.HasRetail && row.RetailPrice != nil {
		return row.RetailPrice.Mul(contractorRatio).Round(2), enums.PriceTierContractor
	}

	return decimal.Zero, enums.PriceTierRetail
}

// DeriveContractorPrice computes the standard contractor price from retail.
func DeriveContractorPrice(retail decimal.Decimal) decimal.Decimal {
	return retail.Mul(contractorRatio).Round(2)
}
