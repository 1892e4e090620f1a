package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/haulstead/dispatch-backend/pkg/enums"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestReadPrice_DualShape(t *testing.T) {
	capability := Capability{HasRetail: true, HasContractor: true}
	row := PriceRow{RetailPrice: dec("50.00"), Contractor: dec("42.50")}

	amount, tier := ReadPrice(row, enums.PriceTierRetail, capability)
	assert.True(t, amount.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, enums.PriceTierRetail, tier)

	amount, tier = ReadPrice(row, enums.PriceTierContractor, capability)
	assert.True(t, amount.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, enums.PriceTierContractor, tier)
}

func TestReadPrice_LegacyFallback(t *testing.T) {
	capability := Capability{HasRetail: true, HasContractor: true, HasLegacy: true}
	row := PriceRow{LegacyPrice: dec("18.75")}

	// Neither dual column is populated yet, so both tiers read the legacy
	// column and keep the tier they asked for.
	amount, tier := ReadPrice(row, enums.PriceTierRetail, capability)
	assert.True(t, amount.Equal(decimal.RequireFromString("18.75")))
	assert.Equal(t, enums.PriceTierRetail, tier)

	amount, tier = ReadPrice(row, enums.PriceTierContractor, capability)
	assert.True(t, amount.Equal(decimal.RequireFromString("18.75")))
	assert.Equal(t, enums.PriceTierContractor, tier)
}

func TestReadPrice_LegacyOnlySchema(t *testing.T) {
	capability := Capability{HasLegacy: true}
	row := PriceRow{LegacyPrice: dec("9.99")}

	amount, tier := ReadPrice(row, enums.PriceTierContractor, capability)
	assert.True(t, amount.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, enums.PriceTierContractor, tier)
}

func TestReadPrice_DerivedContractor(t *testing.T) {
	capability := Capability{HasRetail: true, HasContractor: true}
	row := PriceRow{RetailPrice: dec("50.00")}

	amount, tier := ReadPrice(row, enums.PriceTierContractor, capability)
	assert.True(t, amount.Equal(decimal.RequireFromString("45.00")), "got %s", amount)
	assert.Equal(t, enums.PriceTierContractor, tier)
}

func TestReadPrice_NoPriceSource(t *testing.T) {
	amount, tier := ReadPrice(PriceRow{}, enums.PriceTierContractor, Capability{})
	assert.True(t, amount.IsZero())
	assert.Equal(t, enums.PriceTierRetail, tier)
}

func TestReadPrice_InvalidTierDefaultsToRetail(t *testing.T) {
	capability := Capability{HasRetail: true, HasContractor: true}
	row := PriceRow{RetailPrice: dec("12.00"), Contractor: dec("10.00")}

	amount, tier := ReadPrice(row, enums.PriceTier("wholesale"), capability)
	assert.True(t, amount.Equal(decimal.RequireFromString("12.00")))
	assert.Equal(t, enums.PriceTierRetail, tier)
}

func TestDeriveContractorPrice(t *testing.T) {
	assert.Equal(t, "45.00", DeriveContractorPrice(decimal.RequireFromString("50.00")).StringFixed(2))
	assert.Equal(t, "30.00", DeriveContractorPrice(decimal.RequireFromString("33.33")).StringFixed(2))
	assert.Equal(t, "0.00", DeriveContractorPrice(decimal.Zero).StringFixed(2))
}

func TestCapabilityShape(t *testing.T) {
	assert.Equal(t, ShapeLegacy, Capability{HasLegacy: true}.Shape())
	assert.Equal(t, ShapeTransitional, Capability{HasRetail: true, HasContractor: true, HasLegacy: true}.Shape())
	assert.Equal(t, ShapeDual, Capability{HasRetail: true, HasContractor: true}.Shape())
	assert.Equal(t, ShapeUnknown, Capability{}.Shape())
	assert.False(t, Capability{}.HasAnyPriceSource())
	assert.True(t, Capability{HasContractor: true}.HasAnyPriceSource())
}
