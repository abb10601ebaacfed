// Package checkout turns a cart into a confirmed order with a receipt.
package checkout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
	"evently/internal/models"
)

// Store persists orders and applies discount codes atomically.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "checkout-store"}),
	}
}

// CreateOrder inserts the order and, when a discount code is attached,
// consumes one use of it in the same transaction. The discount row is
// locked so concurrent checkouts cannot oversell a capped code.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewOrderCreateFailedError(err)
	}
	defer tx.Rollback()

	if order.DiscountCode != "" {
		// Codes are stored upper-cased; the order row keeps the
		// canonical form too.
		order.DiscountCode = normalizeCode(order.DiscountCode)
		discount, err := lockDiscount(ctx, tx, order.DiscountCode)
		if err != nil {
			return err
		}
		order.DiscountOff = discountOff(discount, order.Subtotal)
		order.Total = order.Subtotal - order.DiscountOff

		if _, err := tx.ExecContext(ctx,
			`UPDATE discounts SET used_count = used_count + 1 WHERE id = $1`,
			discount.ID,
		); err != nil {
			return apperrors.NewOrderCreateFailedError(err)
		}
	}

	items, err := json.Marshal(order.Items)
	if err != nil {
		return apperrors.NewOrderCreateFailedError(err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, items, subtotal, discount_code, discount_off, total, status, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		order.ID, order.UserID, items, order.Subtotal, order.DiscountCode,
		order.DiscountOff, order.Total, order.Status, order.Email, order.Phone, order.CreatedAt,
	); err != nil {
		return apperrors.NewOrderCreateFailedError(err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewOrderCreateFailedError(err)
	}
	return nil
}

// GetOrder returns one order by id.
func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var (
		o     models.Order
		items []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, items, subtotal, discount_code, discount_off, total, status, email, phone, created_at
		FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.UserID, &items, &o.Subtotal, &o.DiscountCode,
		&o.DiscountOff, &o.Total, &o.Status, &o.Email, &o.Phone, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("order", id)
		}
		return nil, apperrors.NewQueryExecutionFailedError("get_order", err)
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get_order", err)
	}
	return &o, nil
}

// ListOrders returns a user's orders, newest first.
func (s *Store) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, items, subtotal, discount_code, discount_off, total, status, email, phone, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_orders", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var (
			o     models.Order
			items []byte
		)
		if err := rows.Scan(&o.ID, &o.UserID, &items, &o.Subtotal, &o.DiscountCode,
			&o.DiscountOff, &o.Total, &o.Status, &o.Email, &o.Phone, &o.CreatedAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_order", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_orders", err)
	}
	return orders, nil
}

// ValidateDiscount checks a code outside a checkout, for the cart
// page's "apply code" preview. It does not consume a use.
func (s *Store) ValidateDiscount(ctx context.Context, code string, subtotal int64) (int64, error) {
	code = normalizeCode(code)

	var d models.Discount
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, kind, value, max_uses, used_count, expires_at, active
		FROM discounts WHERE code = $1`, code,
	).Scan(&d.ID, &d.Code, &d.Kind, &d.Value, &d.MaxUses, &d.UsedCount, &d.ExpiresAt, &d.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.NewDiscountInvalidError(code)
		}
		return 0, apperrors.NewQueryExecutionFailedError("validate_discount", err)
	}

	if err := checkDiscount(&d); err != nil {
		return 0, err
	}
	return discountOff(&d, subtotal), nil
}

// normalizeCode matches the canonical form discounts are stored in.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func lockDiscount(ctx context.Context, tx *sql.Tx, code string) (*models.Discount, error) {
	code = normalizeCode(code)

	var d models.Discount
	err := tx.QueryRowContext(ctx,
		`SELECT id, code, kind, value, max_uses, used_count, expires_at, active
		FROM discounts WHERE code = $1 FOR UPDATE`, code,
	).Scan(&d.ID, &d.Code, &d.Kind, &d.Value, &d.MaxUses, &d.UsedCount, &d.ExpiresAt, &d.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewDiscountInvalidError(code)
		}
		return nil, apperrors.NewQueryExecutionFailedError("lock_discount", err)
	}

	if err := checkDiscount(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

func checkDiscount(d *models.Discount) error {
	if !d.Active {
		return apperrors.NewDiscountInvalidError(d.Code)
	}
	if d.ExpiresAt != nil && d.ExpiresAt.Before(time.Now().UTC()) {
		return apperrors.NewDiscountExpiredError(d.Code)
	}
	if d.MaxUses > 0 && d.UsedCount >= d.MaxUses {
		return apperrors.NewDiscountExhaustedError(d.Code)
	}
	return nil
}

// discountOff computes the amount taken off the subtotal, clamped so a
// fixed discount can never push the total negative.
func discountOff(d *models.Discount, subtotal int64) int64 {
	var off int64
	switch d.Kind {
	case "percent":
		off = subtotal * d.Value / 100
	case "fixed":
		off = d.Value
	}
	if off > subtotal {
		off = subtotal
	}
	return off
}

func newOrderID() string {
	return uuid.NewString()
}
