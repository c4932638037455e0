package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/sevahub/home-services/internal/model"
)

// PromoRepo reads promo codes and tracks their usage.  The usage
// counter is only ever moved with an atomic relative UPDATE so
// concurrent bookings against the same code cannot lose increments.
type PromoRepo struct {
	db *sql.DB
}

// NewPromoRepo returns a new PromoRepo bound to the given database.
func NewPromoRepo(db *sql.DB) *PromoRepo { return &PromoRepo{db: db} }

// FindByCode looks up a promo code (case-insensitive).  It returns
// nil when the code does not exist; validity checks are the caller's
// concern so rejections can carry precise reasons.
func (r *PromoRepo) FindByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	const q = `SELECT id, code, is_active, valid_from, valid_to, min_order_amount,
		max_uses, max_uses_per_user, used_count, categories, services,
		discount_type, discount_value, max_discount
		FROM promo_codes WHERE code = ? LIMIT 1`
	var p model.PromoCode
	var validFrom, validTo sql.NullTime
	var catJSON, svcJSON []byte
	err := r.db.QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&p.ID, &p.Code, &p.IsActive, &validFrom, &validTo, &p.MinOrderAmount,
		&p.MaxUses, &p.MaxUsesPerUser, &p.UsedCount, &catJSON, &svcJSON,
		&p.DiscountType, &p.DiscountValue, &p.MaxDiscount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if validFrom.Valid {
		t := validFrom.Time
		p.ValidFrom = &t
	}
	if validTo.Valid {
		t := validTo.Time
		p.ValidTo = &t
	}
	if len(catJSON) > 0 {
		_ = json.Unmarshal(catJSON, &p.Categories)
	}
	if len(svcJSON) > 0 {
		_ = json.Unmarshal(svcJSON, &p.Services)
	}
	return &p, nil
}

// CountUserUsage counts how many non-cancelled bookings the user
// already placed with the given code, for per-user cap enforcement.
func (r *PromoRepo) CountUserUsage(ctx context.Context, userID uint64, code string) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings
		WHERE user_id = ? AND promo_code = ? AND status <> 'cancelled'`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID, code).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// IncrementUsageTx bumps the global usage counter by one inside an
// existing transaction.
func (r *PromoRepo) IncrementUsageTx(ctx context.Context, tx *sql.Tx, promoID uint64) error {
	const q = `UPDATE promo_codes SET used_count = used_count + 1 WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, promoID)
	return err
}
