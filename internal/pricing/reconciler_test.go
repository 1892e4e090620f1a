package pricing

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openPricingTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func createLegacyProductsTable(t *testing.T, db *gorm.DB) {
	t.Helper()

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT 'unit',
  price_per_unit NUMERIC(12,2),
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
}

func createDualProductsTable(t *testing.T, db *gorm.DB) {
	t.Helper()

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT 'unit',
  retail_price NUMERIC(12,2),
  contractor_price NUMERIC(12,2),
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
}

func insertLegacyProduct(t *testing.T, db *gorm.DB, name, price string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := db.Exec(
		"INSERT INTO products (id, name, price_per_unit) VALUES (?, ?, ?)",
		id, name, price,
	).Error
	require.NoError(t, err)
	return id
}

func TestReconciler_UpgradesLegacyShape(t *testing.T) {
	db := openPricingTestDB(t, "reconciler_upgrade")
	createLegacyProductsTable(t, db)

	insertLegacyProduct(t, db, "Topsoil", "50.00")
	insertLegacyProduct(t, db, "Gravel", "33.33")

	before := ResolveCapability(db)
	require.Equal(t, ShapeLegacy, before.Shape())

	after := NewReconciler(db, nil).Run(context.Background())

	assert.True(t, after.HasRetail)
	assert.True(t, after.HasContractor)
	assert.False(t, after.HasLegacy, "legacy column should be dropped once drained")

	var rows []PriceRow
	err := db.Raw("SELECT id, name, retail_price, contractor_price FROM products ORDER BY name").Scan(&rows).Error
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].RetailPrice)
	require.NotNil(t, rows[0].Contractor)
	assert.Equal(t, "33.33", rows[0].RetailPrice.StringFixed(2))
	assert.Equal(t, "30.00", rows[0].Contractor.StringFixed(2))

	require.NotNil(t, rows[1].RetailPrice)
	require.NotNil(t, rows[1].Contractor)
	assert.Equal(t, "50.00", rows[1].RetailPrice.StringFixed(2))
	assert.Equal(t, "45.00", rows[1].Contractor.StringFixed(2))
}

func TestReconciler_Idempotent(t *testing.T) {
	db := openPricingTestDB(t, "reconciler_idempotent")
	createLegacyProductsTable(t, db)
	insertLegacyProduct(t, db, "Mulch", "20.00")

	reconciler := NewReconciler(db, nil)
	first := reconciler.Run(context.Background())
	second := reconciler.Run(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, ShapeDual, second.Shape())

	var rows []PriceRow
	err := db.Raw("SELECT retail_price, contractor_price FROM products").Scan(&rows).Error
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "20.00", rows[0].RetailPrice.StringFixed(2))
	assert.Equal(t, "18.00", rows[0].Contractor.StringFixed(2))
}

func TestReconciler_DoesNotOverwriteExistingPrices(t *testing.T) {
	db := openPricingTestDB(t, "reconciler_no_overwrite")
	createDualProductsTable(t, db)

	id := uuid.New()
	err := db.Exec(
		"INSERT INTO products (id, name, retail_price, contractor_price) VALUES (?, ?, ?, ?)",
		id, "Sand", "40.00", "31.00",
	).Error
	require.NoError(t, err)

	NewReconciler(db, nil).Run(context.Background())

	var row PriceRow
	err = db.Raw("SELECT retail_price, contractor_price FROM products WHERE id = ?", id).Scan(&row).Error
	require.NoError(t, err)
	// A hand-set contractor price outside the standard discount survives.
	assert.Equal(t, "31.00", row.Contractor.StringFixed(2))
	assert.Equal(t, "40.00", row.RetailPrice.StringFixed(2))
}

func TestReconciler_DerivesMissingContractorPrice(t *testing.T) {
	db := openPricingTestDB(t, "reconciler_derive")
	createDualProductsTable(t, db)

	id := uuid.New()
	err := db.Exec(
		"INSERT INTO products (id, name, retail_price) VALUES (?, ?, ?)",
		id, "Compost", "25.50",
	).Error
	require.NoError(t, err)

	NewReconciler(db, nil).Run(context.Background())

	var row PriceRow
	err = db.Raw("SELECT retail_price, contractor_price FROM products WHERE id = ?", id).Scan(&row).Error
	require.NoError(t, err)
	require.NotNil(t, row.Contractor)
	expected := decimal.RequireFromString("25.50").Mul(decimal.RequireFromString("0.9")).Round(2)
	assert.Equal(t, expected.StringFixed(2), row.Contractor.StringFixed(2))
}
