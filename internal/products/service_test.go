package products

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

	pkgerrors "github.com/haulstead/dispatch-backend/pkg/errors"
)

func setupProductsTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

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
	return db
}

func newProductsService(t *testing.T, name string) *Service {
	t.Helper()

	svc, err := NewService(NewRepository(setupProductsTestDB(t, name)))
	require.NoError(t, err)
	return svc
}

func requireProductCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected a coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProductCreate_DerivesContractorPrice(t *testing.T) {
	svc := newProductsService(t, "products_create_derive")

	created, err := svc.Create(context.Background(), CreateProductInput{
		Name:        "Topsoil",
		Unit:        "yard",
		RetailPrice: decPtr("50.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.ContractorPrice)
	assert.Equal(t, "45.00", created.ContractorPrice.StringFixed(2))
	assert.True(t, created.IsActive)
}

func TestProductCreate_KeepsExplicitContractorPrice(t *testing.T) {
	svc := newProductsService(t, "products_create_explicit")

	created, err := svc.Create(context.Background(), CreateProductInput{
		Name:            "Gravel",
		RetailPrice:     decPtr("40.00"),
		ContractorPrice: decPtr("31.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.ContractorPrice)
	assert.Equal(t, "31.00", created.ContractorPrice.StringFixed(2))
	assert.Equal(t, "unit", created.Unit)
}

func TestProductCreate_Validation(t *testing.T) {
	svc := newProductsService(t, "products_create_invalid")

	_, err := svc.Create(context.Background(), CreateProductInput{})
	requireProductCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), CreateProductInput{
		Name:        "Gravel",
		RetailPrice: decPtr("-1.00"),
	})
	requireProductCode(t, err, pkgerrors.CodeValidation)
}

func TestProductCreate_PersistsInactiveFlag(t *testing.T) {
	svc := newProductsService(t, "products_create_inactive")

	inactive := false
	created, err := svc.Create(context.Background(), CreateProductInput{
		Name:     "Retired Mix",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	loaded, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsActive, "inactive flag must survive the insert, not the column default")
}

func TestProductList_ActiveOnlyFilter(t *testing.T) {
	svc := newProductsService(t, "products_list")

	_, err := svc.Create(context.Background(), CreateProductInput{Name: "Topsoil", RetailPrice: decPtr("50.00")})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Create(context.Background(), CreateProductInput{Name: "Retired Mix", IsActive: &inactive})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Topsoil", active[0].Name)
}

func TestProductUpdate_RetailChangeRederivesContractor(t *testing.T) {
	svc := newProductsService(t, "products_update_rederive")

	created, err := svc.Create(context.Background(), CreateProductInput{
		Name:            "Topsoil",
		RetailPrice:     decPtr("50.00"),
		ContractorPrice: decPtr("44.00"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateProductInput{
		RetailPrice: decPtr("60.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ContractorPrice)
	assert.Equal(t, "54.00", updated.ContractorPrice.StringFixed(2))
}

func TestProductUpdate_ExplicitContractorWins(t *testing.T) {
	svc := newProductsService(t, "products_update_explicit")

	created, err := svc.Create(context.Background(), CreateProductInput{
		Name:        "Topsoil",
		RetailPrice: decPtr("50.00"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateProductInput{
		RetailPrice:     decPtr("60.00"),
		ContractorPrice: decPtr("48.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ContractorPrice)
	assert.Equal(t, "48.00", updated.ContractorPrice.StringFixed(2))
}

func TestProductUpdate_NotFound(t *testing.T) {
	svc := newProductsService(t, "products_update_missing")

	name := "Anything"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	requireProductCode(t, err, pkgerrors.CodeNotFound)
}

func TestProductDelete(t *testing.T) {
	svc := newProductsService(t, "products_delete")

	created, err := svc.Create(context.Background(), CreateProductInput{Name: "Topsoil"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	err = svc.Delete(context.Background(), created.ID)
	requireProductCode(t, err, pkgerrors.CodeNotFound)
}
