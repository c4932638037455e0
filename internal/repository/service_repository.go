package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sevahub/home-services/internal/model"
)

// ServiceRepo reads the service catalog used for catalog-priced
// bookings.
type ServiceRepo struct {
	db *sql.DB
}

// NewServiceRepo returns a new ServiceRepo bound to the given database.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

// GetByID returns a catalog service, or nil when it does not exist.
// Inactive services are returned too so callers can reject them with
// a precise message rather than a generic not-found.
func (r *ServiceRepo) GetByID(ctx context.Context, serviceID uint64) (*model.Service, error) {
	const q = `SELECT id, name, category_id, base_price, visit_fee, tax_percent, is_active
		FROM services WHERE id = ?`
	var s model.Service
	err := r.db.QueryRowContext(ctx, q, serviceID).Scan(
		&s.ID, &s.Name, &s.CategoryID, &s.BasePrice, &s.VisitFee, &s.TaxPercent, &s.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AddonsByNames resolves selected addons by name for a service,
// preserving request order.  Unknown names are skipped.
func (r *ServiceRepo) AddonsByNames(ctx context.Context, serviceID uint64, names []string) ([]model.ServiceAddon, error) {
	if len(names) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	q := `SELECT id, service_id, name, price FROM service_addons
		WHERE service_id = ? AND name IN (` + placeholders + `)`
	args := make([]interface{}, 0, len(names)+1)
	args = append(args, serviceID)
	for _, n := range names {
		args = append(args, n)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byName := make(map[string]model.ServiceAddon, len(names))
	for rows.Next() {
		var a model.ServiceAddon
		if err := rows.Scan(&a.ID, &a.ServiceID, &a.Name, &a.Price); err != nil {
			return nil, err
		}
		byName[a.Name] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]model.ServiceAddon, 0, len(names))
	for _, n := range names {
		if a, ok := byName[n]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}
