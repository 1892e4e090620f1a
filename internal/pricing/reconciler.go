package pricing

import (
	"context"

	"gorm.io/gorm"

	"github.com/haulstead/dispatch-backend/pkg/db/models"
	"github.com/haulstead/dispatch-backend/pkg/logger"
)

// Reconciler brings the products table from the legacy single-price shape to
// the dual-price shape at process start. Every step is guarded independently:
// a failed column or backfill operation is logged and the remaining steps still
// run, and the application starts regardless of the outcome. Running it again
// on an already-migrated or partially-migrated table is a no-op.
type Reconciler struct {
	db   *gorm.DB
	logg *logger.Logger
}

// NewReconciler builds a reconciler for the products table.
func NewReconciler(db *gorm.DB, logg *logger.Logger) *Reconciler {
	return &Reconciler{db: db, logg: logg}
}

// Run executes the reconciliation pass and returns the capability of the table
// as it stands afterwards.
func (r *Reconciler) Run(ctx context.Context) Capability {
	capability := ResolveCapability(r.db)
	migrator := r.db.Migrator()

	if !capability.HasRetail {
		if err := migrator.AddColumn(&models.Product{}, "RetailPrice"); err != nil {
			r.logError(ctx, "add retail_price column", err)
		}
	}
	if !capability.HasContractor {
		if err := migrator.AddColumn(&models.Product{}, "ContractorPrice"); err != nil {
			r.logError(ctx, "add contractor_price column", err)
		}
	}

	capability = ResolveCapability(r.db)

	if capability.HasRetail && capability.HasLegacy {
		result := r.db.WithContext(ctx).Exec(`
			UPDATE products
			SET retail_price = price_per_unit
			WHERE retail_price IS NULL AND price_per_unit IS NOT NULL
		`)
		if result.Error != nil {
			r.logError(ctx, "backfill retail_price from legacy column", result.Error)
		} else if result.RowsAffected > 0 {
			r.logInfo(ctx, "backfilled retail prices from legacy column", result.RowsAffected)
		}
	}

	if capability.HasRetail && capability.HasContractor {
		result := r.db.WithContext(ctx).Exec(`
			UPDATE products
			SET contractor_price = ROUND(retail_price * 0.9, 2)
			WHERE contractor_price IS NULL AND retail_price IS NOT NULL
		`)
		if result.Error != nil {
			r.logError(ctx, "derive contractor prices", result.Error)
		} else if result.RowsAffected > 0 {
			r.logInfo(ctx, "derived contractor prices", result.RowsAffected)
		}
	}

	if capability.HasLegacy {
		r.maybeDropLegacyColumn(ctx, capability)
	}

	final := ResolveCapability(r.db)
	if r.logg != nil {
		fields := map[string]any{
			"has_retail":     final.HasRetail,
			"has_contractor": final.HasContractor,
			"has_legacy":     final.HasLegacy,
		}
		r.logg.Info(r.logg.WithFields(ctx, fields), "pricing reconciliation finished")
	}
	return final
}

// maybeDropLegacyColumn removes price_per_unit only after verifying no row
// still depends on it. The drop runs as a plain ALTER TABLE and the column is
// re-checked afterwards; a column that survives is logged and left in place.
func (r *Reconciler) maybeDropLegacyColumn(ctx context.Context, capability Capability) {
	if !capability.HasRetail {
		return
	}

	var unmigrated int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM products
		WHERE price_per_unit IS NOT NULL AND retail_price IS NULL
	`).Scan(&unmigrated).Error
	if err != nil {
		r.logError(ctx, "verify legacy column is drained", err)
		return
	}

	if unmigrated > 0 {
		if r.logg != nil {
			fields := map[string]any{"unmigrated_rows": unmigrated}
			r.logg.Warn(r.logg.WithFields(ctx, fields), "legacy price column still holds unmigrated rows, keeping it")
		}
		return
	}

	if err := r.db.WithContext(ctx).Exec(`ALTER TABLE products DROP COLUMN price_per_unit`).Error; err != nil {
		r.logError(ctx, "drop legacy price column", err)
		return
	}
	if r.db.Migrator().HasColumn(&models.Product{}, "price_per_unit") {
		if r.logg != nil {
			r.logg.Warn(ctx, "legacy price column survived the drop, leaving it in place")
		}
	}
}

func (r *Reconciler) logError(ctx context.Context, step string, err error) {
	if r.logg == nil {
		return
	}
	r.logg.Error(r.logg.WithField(ctx, "step", step), "pricing reconciliation step failed", err)
}

func (r *Reconciler) logInfo(ctx context.Context, msg string, rows int64) {
	if r.logg == nil {
		return
	}
	r.logg.Info(r.logg.WithField(ctx, "rows", rows), msg)
}
