package customers

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/haulstead/dispatch-backend/internal/pricing"
	pkgerrors "github.com/haulstead/dispatch-backend/pkg/errors"
)

var _ pricing.CustomerFinder = (*Repository)(nil)

func setupCustomersTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  contractor INTEGER NOT NULL DEFAULT 0,
  addresses TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newCustomersService(t *testing.T, name string) *Service {
	t.Helper()

	svc, err := NewService(NewRepository(setupCustomersTestDB(t, name)))
	require.NoError(t, err)
	return svc
}

func requireCustomerCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected a coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func strPtr(s string) *string { return &s }

func TestCustomerCreate_PersistsAccount(t *testing.T) {
	svc := newCustomersService(t, "customers_create")

	created, err := svc.Create(context.Background(), CreateCustomerInput{
		Name:       "Hilltop Nursery",
		Phone:      strPtr("555-0142"),
		Contractor: true,
		Addresses:  []string{"14 Ridge Rd", "2 Barn Way"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hilltop Nursery", created.Name)
	assert.True(t, created.Contractor)
	assert.Equal(t, []string{"14 Ridge Rd", "2 Barn Way"}, created.Addresses)

	loaded, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, []string{"14 Ridge Rd", "2 Barn Way"}, loaded.Addresses)
}

func TestCustomerCreate_RequiresName(t *testing.T) {
	svc := newCustomersService(t, "customers_create_name")

	_, err := svc.Create(context.Background(), CreateCustomerInput{})
	requireCustomerCode(t, err, pkgerrors.CodeValidation)
}

func TestCustomerGet_NotFound(t *testing.T) {
	svc := newCustomersService(t, "customers_get_missing")

	_, err := svc.Get(context.Background(), uuid.New())
	requireCustomerCode(t, err, pkgerrors.CodeNotFound)
}

func TestCustomerList_PrefixFilterAndOrder(t *testing.T) {
	svc := newCustomersService(t, "customers_list")

	for _, name := range []string{"Walnut Farms", "Hilltop Nursery", "hillside paving"} {
		_, err := svc.Create(context.Background(), CreateCustomerInput{Name: name})
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Hilltop Nursery", all[0].Name)

	hill, err := svc.List(context.Background(), "hill")
	require.NoError(t, err)
	require.Len(t, hill, 2)
}

func TestCustomerUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	svc := newCustomersService(t, "customers_update")

	created, err := svc.Create(context.Background(), CreateCustomerInput{
		Name:      "Hilltop Nursery",
		Addresses: []string{"14 Ridge Rd"},
	})
	require.NoError(t, err)

	contractor := true
	addresses := []string{"9 Quarry Ln"}
	updated, err := svc.Update(context.Background(), created.ID, UpdateCustomerInput{
		Contractor: &contractor,
		Addresses:  &addresses,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hilltop Nursery", updated.Name)
	assert.True(t, updated.Contractor)
	assert.Equal(t, []string{"9 Quarry Ln"}, updated.Addresses)

	empty := ""
	_, err = svc.Update(context.Background(), created.ID, UpdateCustomerInput{Name: &empty})
	requireCustomerCode(t, err, pkgerrors.CodeValidation)
}

func TestCustomerUpdate_NotFound(t *testing.T) {
	svc := newCustomersService(t, "customers_update_missing")

	name := "Anyone"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateCustomerInput{Name: &name})
	requireCustomerCode(t, err, pkgerrors.CodeNotFound)
}

func TestCustomerDelete(t *testing.T) {
	svc := newCustomersService(t, "customers_delete")

	created, err := svc.Create(context.Background(), CreateCustomerInput{Name: "Hilltop Nursery"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	err = svc.Delete(context.Background(), created.ID)
	requireCustomerCode(t, err, pkgerrors.CodeNotFound)
}
