package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sevahub/home-services/internal/model"
)

// MembershipRepo reads membership snapshots and records usage.  Plan
// administration (purchase, renewal, cancellation) is out of scope.
type MembershipRepo struct {
	db *sql.DB
}

// NewMembershipRepo returns a new MembershipRepo bound to the given database.
func NewMembershipRepo(db *sql.DB) *MembershipRepo { return &MembershipRepo{db: db} }

// ActiveForUser returns the user's currently active membership at the
// given instant, or nil when none is active.
func (r *MembershipRepo) ActiveForUser(ctx context.Context, userID uint64, at time.Time) (*model.Membership, error) {
	const q = `SELECT id, user_id, plan, discount_type, discount_value, max_discount, is_active, starts_at, expires_at
		FROM memberships
		WHERE user_id = ? AND is_active = 1 AND starts_at <= ? AND expires_at > ?
		ORDER BY expires_at DESC LIMIT 1`
	var m model.Membership
	err := r.db.QueryRowContext(ctx, q, userID, at.UTC(), at.UTC()).Scan(
		&m.ID, &m.UserID, &m.Plan, &m.DiscountType, &m.DiscountValue,
		&m.MaxDiscount, &m.IsActive, &m.StartsAt, &m.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordUsageTx inserts a usage row linking a membership to the
// booking whose discount it funded, inside an existing transaction.
func (r *MembershipRepo) RecordUsageTx(ctx context.Context, tx *sql.Tx, membershipID, bookingID uint64, discount int64) error {
	const q = `INSERT INTO membership_usage (membership_id, booking_id, discount_amount) VALUES (?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, membershipID, bookingID, discount)
	return err
}
