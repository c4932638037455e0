package repository

import (
	"context"
	"database/sql"

	"github.com/sevahub/home-services/internal/model"
)

// ReferralRepo persists referrer/referee pairs.  A referee has at
// most one referral row; MarkApplied upserts so the first qualifying
// booking works whether or not signup already created the pair.
type ReferralRepo struct {
	db *sql.DB
}

// NewReferralRepo returns a new ReferralRepo bound to the given database.
func NewReferralRepo(db *sql.DB) *ReferralRepo { return &ReferralRepo{db: db} }

// FindByReferee returns the referral row for the given referee, or
// nil when the user was never referred.
func (r *ReferralRepo) FindByReferee(ctx context.Context, refereeID uint64) (*model.Referral, error) {
	const q = `SELECT id, referrer_id, referee_id, status, discount_amount, reward_amount, created_at, updated_at
		FROM referrals WHERE referee_id = ? LIMIT 1`
	var ref model.Referral
	err := r.db.QueryRowContext(ctx, q, refereeID).Scan(
		&ref.ID, &ref.ReferrerID, &ref.RefereeID, &ref.Status,
		&ref.DiscountAmount, &ref.RewardAmount, &ref.CreatedAt, &ref.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// MarkApplied records that the referee's first qualifying booking
// consumed a referral discount.  Inserts the pair when signup never
// created it, otherwise advances status and accumulates the amount.
func (r *ReferralRepo) MarkApplied(ctx context.Context, referrerID, refereeID uint64, discount int64) error {
	const q = `INSERT INTO referrals (referrer_id, referee_id, status, discount_amount, reward_amount)
		VALUES (?, ?, 'discount_applied', ?, 0)
		ON DUPLICATE KEY UPDATE status = 'discount_applied',
			discount_amount = discount_amount + VALUES(discount_amount)`
	_, err := r.db.ExecContext(ctx, q, referrerID, refereeID, discount)
	return err
}

// MarkRewardCredited records that the referrer's wallet was credited
// for this referee.
func (r *ReferralRepo) MarkRewardCredited(ctx context.Context, refereeID uint64, reward int64) error {
	const q = `UPDATE referrals SET status = 'reward_credited',
		reward_amount = reward_amount + ? WHERE referee_id = ?`
	_, err := r.db.ExecContext(ctx, q, reward, refereeID)
	return err
}
