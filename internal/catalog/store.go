// Package catalog manages vendors and their bookable services.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
	"evently/internal/models"
)

// Store is the Postgres-backed vendor/service repository.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-store"}),
	}
}

// ListVendors returns vendors, optionally filtered by category and city.
func (s *Store) ListVendors(ctx context.Context, category, city string) ([]models.Vendor, error) {
	query := `SELECT id, name, category, city, rating, verified, created_at
		FROM vendors
		WHERE ($1 = '' OR category = $1) AND ($2 = '' OR city = $2)
		ORDER BY rating DESC, name ASC`

	rows, err := s.db.QueryContext(ctx, query, category, city)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_vendors", err)
	}
	defer rows.Close()

	var vendors []models.Vendor
	for rows.Next() {
		var v models.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Category, &v.City, &v.Rating, &v.Verified, &v.CreatedAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_vendor", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_vendors", err)
	}
	return vendors, nil
}

// GetVendor returns one vendor by id.
func (s *Store) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	query := `SELECT id, name, category, city, rating, verified, created_at
		FROM vendors WHERE id = $1`

	var v models.Vendor
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Category, &v.City, &v.Rating, &v.Verified, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("vendor", id)
		}
		return nil, apperrors.NewQueryExecutionFailedError("get_vendor", err)
	}
	return &v, nil
}

// CreateVendor inserts a new vendor and returns it with its id.
func (s *Store) CreateVendor(ctx context.Context, v models.Vendor) (*models.Vendor, error) {
	v.ID = uuid.NewString()
	v.CreatedAt = time.Now().UTC()

	query := `INSERT INTO vendors (id, name, category, city, rating, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.db.ExecContext(ctx, query, v.ID, v.Name, v.Category, v.City, v.Rating, v.Verified, v.CreatedAt); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("create_vendor", err)
	}
	return &v, nil
}

// ListServices returns the services offered by a vendor.
func (s *Store) ListServices(ctx context.Context, vendorID string) ([]models.Service, error) {
	query := `SELECT id, vendor_id, name, category, description, price_min, price_max, created_at
		FROM services WHERE vendor_id = $1 ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_services", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var sv models.Service
		if err := rows.Scan(&sv.ID, &sv.VendorID, &sv.Name, &sv.Category, &sv.Description, &sv.PriceMin, &sv.PriceMax, &sv.CreatedAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_service", err)
		}
		services = append(services, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_services", err)
	}
	return services, nil
}

// GetService returns one service by id.
func (s *Store) GetService(ctx context.Context, id string) (*models.Service, error) {
	query := `SELECT id, vendor_id, name, category, description, price_min, price_max, created_at
		FROM services WHERE id = $1`

	var sv models.Service
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sv.ID, &sv.VendorID, &sv.Name, &sv.Category, &sv.Description, &sv.PriceMin, &sv.PriceMax, &sv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("service", id)
		}
		return nil, apperrors.NewQueryExecutionFailedError("get_service", err)
	}
	return &sv, nil
}

// CreateService inserts a new service under a vendor.
func (s *Store) CreateService(ctx context.Context, sv models.Service) (*models.Service, error) {
	sv.ID = uuid.NewString()
	sv.CreatedAt = time.Now().UTC()

	query := `INSERT INTO services (id, vendor_id, name, category, description, price_min, price_max, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := s.db.ExecContext(ctx, query, sv.ID, sv.VendorID, sv.Name, sv.Category, sv.Description, sv.PriceMin, sv.PriceMax, sv.CreatedAt); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("create_service", err)
	}
	return &sv, nil
}
