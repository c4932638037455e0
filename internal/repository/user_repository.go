package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sevahub/home-services/internal/model"
)

// UserRepo reads the slice of user data the admission pipeline needs:
// identity for audit and notifications, and referral linkage.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByID returns a user, or nil when no such user exists.
func (r *UserRepo) GetByID(ctx context.Context, userID uint64) (*model.User, error) {
	const q = `SELECT id, name, email, role, referral_code, referred_by, created_at
		FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, userID))
}

// FindByReferralCode resolves the owner of a referral code, or nil
// when the code is unknown.  Codes are stored upper-case.
func (r *UserRepo) FindByReferralCode(ctx context.Context, code string) (*model.User, error) {
	const q = `SELECT id, name, email, role, referral_code, referred_by, created_at
		FROM users WHERE referral_code = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(code))))
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	var referredBy sql.NullInt64
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.ReferralCode, &referredBy, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if referredBy.Valid {
		v := uint64(referredBy.Int64)
		u.ReferredBy = &v
	}
	return &u, nil
}
