package enums

import "fmt"

// PriceTier describes the allowed values for the `price_type` column in
// job_products and the tier returned by pricing lookups.
type PriceTier string

const (
	PriceTierRetail     PriceTier = "retail"
	PriceTierContractor PriceTier = "contractor"
)

var validPriceTiers = []PriceTier{
	PriceTierRetail,
	PriceTierContractor,
}

// IsValid reports whether the value matches the canonical price tier enum.
func (t PriceTier) IsValid() bool {
	for _, candidate := range validPriceTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePriceTier converts the raw string to PriceTier.
func ParsePriceTier(value string) (PriceTier, error) {
	for _, candidate := range validPriceTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price tier %q", value)
}
