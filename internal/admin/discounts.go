// Package admin exposes the back-office surface: discount management
// and marketplace analytics.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
	"evently/internal/models"
)

// DiscountStore manages promotional codes in Postgres.
type DiscountStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewDiscountStore(db *sql.DB, log logger.Logger) *DiscountStore {
	return &DiscountStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "admin-discounts"}),
	}
}

// ListDiscounts returns all codes, newest first.
func (s *DiscountStore) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, kind, value, max_uses, used_count, expires_at, active
		FROM discounts ORDER BY code ASC`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_discounts", err)
	}
	defer rows.Close()

	var discounts []models.Discount
	for rows.Next() {
		var d models.Discount
		if err := rows.Scan(&d.ID, &d.Code, &d.Kind, &d.Value, &d.MaxUses, &d.UsedCount, &d.ExpiresAt, &d.Active); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_discount", err)
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_discounts", err)
	}
	return discounts, nil
}

// CreateDiscount inserts a new code. Codes are stored upper-cased so
// lookups are case-insensitive at their source.
func (s *DiscountStore) CreateDiscount(ctx context.Context, d models.Discount) (*models.Discount, error) {
	if err := validateDiscount(&d); err != nil {
		return nil, err
	}

	d.ID = uuid.NewString()
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.UsedCount = 0
	d.Active = true

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO discounts (id, code, kind, value, max_uses, used_count, expires_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.Code, d.Kind, d.Value, d.MaxUses, d.UsedCount, d.ExpiresAt, d.Active,
	); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("create_discount", err)
	}
	return &d, nil
}

// DeactivateDiscount turns a code off without deleting its usage
// history.
func (s *DiscountStore) DeactivateDiscount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE discounts SET active = false WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("deactivate_discount", err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return apperrors.NewNotFoundError("discount", id)
	}
	return nil
}

// GetDiscount returns one code by id.
func (s *DiscountStore) GetDiscount(ctx context.Context, id string) (*models.Discount, error) {
	var d models.Discount
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, kind, value, max_uses, used_count, expires_at, active
		FROM discounts WHERE id = $1`, id,
	).Scan(&d.ID, &d.Code, &d.Kind, &d.Value, &d.MaxUses, &d.UsedCount, &d.ExpiresAt, &d.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("discount", id)
		}
		return nil, apperrors.NewQueryExecutionFailedError("get_discount", err)
	}
	return &d, nil
}

func validateDiscount(d *models.Discount) error {
	if strings.TrimSpace(d.Code) == "" {
		return apperrors.NewValidationFailedError("code is required")
	}
	if d.Kind != "percent" && d.Kind != "fixed" {
		return apperrors.NewValidationFailedError("kind must be percent or fixed")
	}
	if d.Value <= 0 {
		return apperrors.NewValidationFailedError("value must be positive")
	}
	if d.Kind == "percent" && d.Value > 100 {
		return apperrors.NewValidationFailedError("percent value cannot exceed 100")
	}
	if d.MaxUses < 0 {
		return apperrors.NewValidationFailedError("maxUses cannot be negative")
	}
	return nil
}
