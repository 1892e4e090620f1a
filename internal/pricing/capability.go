package pricing

import (
	"gorm.io/gorm"

	"github.com/haulstead/dispatch-backend/pkg/db/models"
)

// Capability describes which physical price columns exist on the products
// table right now. It is resolved once per reconciliation pass and handed to
// price reads explicitly instead of re-querying the catalog on every request.
type Capability struct {
	HasRetail     bool
	HasContractor bool
	HasLegacy     bool
}

// Shape is the coarse schema generation the capability corresponds to.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeLegacy has only the original single price_per_unit column.
	ShapeLegacy
	// ShapeTransitional has the dual-price pair with the legacy column still present.
	ShapeTransitional
	// ShapeDual has only the retail/contractor pair.
	ShapeDual
)

// Shape collapses the column flags into the schema generation.
func (c Capability) Shape() Shape {
	switch {
	case c.HasRetail && c.HasContractor && c.HasLegacy:
		return ShapeTransitional
	case c.HasRetail && c.HasContractor:
		return ShapeDual
	case c.HasLegacy:
		return ShapeLegacy
	default:
		return ShapeUnknown
	}
}

// HasAnyPriceSource reports whether at least one price column exists. The
// reader degrades to zero prices when none do; it never errors.
func (c Capability) HasAnyPriceSource() bool {
	return c.HasRetail || c.HasContractor || c.HasLegacy
}

// ResolveCapability inspects the live products table. The result may go stale
// if a migration runs afterwards, so it is re-resolved after every
// reconciliation pass rather than cached for the process lifetime.
func ResolveCapability(db *gorm.DB) Capability {
	migrator := db.Migrator()
	return Capability{
		HasRetail:     migrator.HasColumn(&models.Product{}, "retail_price"),
		HasContractor: migrator.HasColumn(&models.Product{}, "contractor_price"),
		HasLegacy:     migrator.HasColumn(&models.Product{}, "price_per_unit"),
	}
}
