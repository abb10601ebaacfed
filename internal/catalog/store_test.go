package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
)

func vendorColumns() []string {
	return []string{"id", "name", "category", "city", "rating", "verified", "created_at"}
}

func TestStore_ListVendors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, name, category, city, rating, verified, created_at").
		WithArgs("catering", "").
		WillReturnRows(sqlmock.NewRows(vendorColumns()).
			AddRow("v-1", "Golden Plates", "catering", "Lagos", 4.8, true, now).
			AddRow("v-2", "Tasty Trays", "catering", "Abuja", 4.5, false, now))

	store := NewStore(db, logger.NewNoOpLogger())
	vendors, err := store.ListVendors(context.Background(), "catering", "")
	require.NoError(t, err)

	require.Len(t, vendors, 2)
	assert.Equal(t, "Golden Plates", vendors[0].Name)
	assert.True(t, vendors[0].Verified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetVendor_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, category, city, rating, verified, created_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(vendorColumns()))

	store := NewStore(db, logger.NewNoOpLogger())
	_, err = store.GetVendor(context.Background(), "missing")

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, stdErr.Code)
}

func TestStore_CreateVendor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO vendors").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewStore(db, logger.NewNoOpLogger())
	created, err := store.CreateVendor(context.Background(), vendorFixture())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListServices(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, vendor_id, name, category, description, price_min, price_max, created_at").
		WithArgs("v-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vendor_id", "name", "category", "description", "price_min", "price_max", "created_at"}).
			AddRow("s-1", "v-1", "Full Decoration", "decoration", "Hall decoration", 500000, 2000000, now))

	store := NewStore(db, logger.NewNoOpLogger())
	services, err := store.ListServices(context.Background(), "v-1")
	require.NoError(t, err)

	require.Len(t, services, 1)
	assert.Equal(t, int64(500000), services[0].PriceMin)
}
