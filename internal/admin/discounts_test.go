package admin

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
	"evently/internal/models"
)

func discountColumns() []string {
	return []string{"id", "code", "kind", "value", "max_uses", "used_count", "expires_at", "active"}
}

func newTestStore(t *testing.T) (*DiscountStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewDiscountStore(db, logger.NewNoOpLogger()), mock
}

func TestDiscountStore_ListDiscounts(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM discounts ORDER BY code")).
		WillReturnRows(sqlmock.NewRows(discountColumns()).
			AddRow("d-1", "LAUNCH10", "percent", 10, 100, 12, nil, true).
			AddRow("d-2", "WELCOME", "fixed", 50000, 0, 3, nil, true))

	discounts, err := store.ListDiscounts(context.Background())
	require.NoError(t, err)
	require.Len(t, discounts, 2)
	assert.Equal(t, "LAUNCH10", discounts[0].Code)
	assert.Equal(t, int64(50000), discounts[1].Value)
}

func TestDiscountStore_CreateDiscount(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO discounts")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := store.CreateDiscount(context.Background(), models.Discount{
		Code:    " launch10 ",
		Kind:    "percent",
		Value:   10,
		MaxUses: 100,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "LAUNCH10", created.Code)
	assert.True(t, created.Active)
	assert.Zero(t, created.UsedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountStore_CreateDiscount_Validation(t *testing.T) {
	tests := []struct {
		name     string
		discount models.Discount
	}{
		{"missing code", models.Discount{Kind: "percent", Value: 10}},
		{"bad kind", models.Discount{Code: "X", Kind: "bogus", Value: 10}},
		{"zero value", models.Discount{Code: "X", Kind: "fixed", Value: 0}},
		{"percent over 100", models.Discount{Code: "X", Kind: "percent", Value: 150}},
		{"negative max uses", models.Discount{Code: "X", Kind: "fixed", Value: 10, MaxUses: -1}},
	}

	store, _ := newTestStore(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateDiscount(context.Background(), tt.discount)
			require.Error(t, err)

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
		})
	}
}

func TestDiscountStore_DeactivateDiscount(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE discounts SET active = false")).
		WithArgs("d-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeactivateDiscount(context.Background(), "d-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountStore_DeactivateDiscount_NotFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE discounts SET active = false")).
		WithArgs("d-ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeactivateDiscount(context.Background(), "d-ghost")
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, stdErr.Code)
}

func TestDiscountStore_GetDiscount_NotFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM discounts WHERE id")).
		WithArgs("d-ghost").
		WillReturnRows(sqlmock.NewRows(discountColumns()))

	_, err := store.GetDiscount(context.Background(), "d-ghost")
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, stdErr.Code)
}
