package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sevahub/home-services/internal/model"
)

// WorkerRepo reads worker profiles, their service areas and category
// coverage.  It also hosts the default SQL-backed matching query used
// when no external matching service is wired in.
type WorkerRepo struct {
	db *sql.DB
}

// NewWorkerRepo returns a new WorkerRepo bound to the given database.
func NewWorkerRepo(db *sql.DB) *WorkerRepo { return &WorkerRepo{db: db} }

// GetByID returns a worker profile, or nil when no such worker exists.
func (r *WorkerRepo) GetByID(ctx context.Context, workerID uint64) (*model.Worker, error) {
	const q = `SELECT id, user_id, name, status, fee_paid, is_online,
		base_price, tax_percent, rating, work_start_min, work_end_min, works_weekends, created_at
		FROM workers WHERE id = ?`
	var w model.Worker
	err := r.db.QueryRowContext(ctx, q, workerID).Scan(
		&w.ID, &w.UserID, &w.Name, &w.Status, &w.FeePaid, &w.IsOnline,
		&w.BasePrice, &w.TaxPercent, &w.Rating, &w.WorkStartMin, &w.WorkEndMin, &w.WorksWeekends, &w.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ServesArea reports whether the worker covers the given pincode or
// city.  Area rows carry either a pincode or a city name.
func (r *WorkerRepo) ServesArea(ctx context.Context, workerID uint64, pincode, city string) (bool, error) {
	const q = `SELECT COUNT(*) FROM worker_areas
		WHERE worker_id = ? AND (pincode = ? OR LOWER(city) = ?)`
	var n int
	if err := r.db.QueryRowContext(ctx, q, workerID, pincode, strings.ToLower(city)).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SupportsCategory reports whether the worker covers the category.
func (r *WorkerRepo) SupportsCategory(ctx context.Context, workerID, categoryID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM worker_categories WHERE worker_id = ? AND category_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, workerID, categoryID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExtrasByNames resolves a worker's extra-service line items by their
// names, preserving request order.  Unknown names are skipped; the
// caller decides whether that is an error.
func (r *WorkerRepo) ExtrasByNames(ctx context.Context, workerID uint64, names []string) ([]model.WorkerExtraService, error) {
	if len(names) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	q := `SELECT id, worker_id, name, price FROM worker_extra_services
		WHERE worker_id = ? AND name IN (` + placeholders + `)`
	args := make([]interface{}, 0, len(names)+1)
	args = append(args, workerID)
	for _, n := range names {
		args = append(args, n)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byName := make(map[string]model.WorkerExtraService, len(names))
	for rows.Next() {
		var e model.WorkerExtraService
		if err := rows.Scan(&e.ID, &e.WorkerID, &e.Name, &e.Price); err != nil {
			return nil, err
		}
		byName[e.Name] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]model.WorkerExtraService, 0, len(names))
	for _, n := range names {
		if e, ok := byName[n]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// FindCandidate is the default matcher query: the best online,
// approved, fee-settled worker covering the category and area with no
// active booking at the slot, ranked by rating.  It returns a zero id
// when no candidate exists.  The score is the normalized rating so
// assignment reasons stay comparable with an external matcher.
func (r *WorkerRepo) FindCandidate(ctx context.Context, categoryID uint64, pincode, city string, slot time.Time, excluded []uint64) (uint64, float64, error) {
	q := `SELECT w.id, w.rating FROM workers w
		JOIN worker_categories wc ON wc.worker_id = w.id AND wc.category_id = ?
		JOIN worker_areas wa ON wa.worker_id = w.id AND (wa.pincode = ? OR LOWER(wa.city) = ?)
		WHERE w.status = 'approved' AND w.fee_paid = 1 AND w.is_online = 1
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b WHERE b.worker_id = w.id AND b.slot_time = ?
			  AND b.status IN ('confirmed','assigned','onway','working')
		  )`
	args := []interface{}{categoryID, pincode, strings.ToLower(city), slot.UTC()}
	if len(excluded) > 0 {
		q += ` AND w.id NOT IN (` + strings.TrimSuffix(strings.Repeat("?,", len(excluded)), ",") + `)`
		for _, id := range excluded {
			args = append(args, id)
		}
	}
	q += ` ORDER BY w.rating DESC, w.id ASC LIMIT 1`
	var id uint64
	var rating float64
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&id, &rating)
	if err == sql.ErrNoRows {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	return id, rating / 5.0, nil
}
