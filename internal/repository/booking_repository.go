package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sevahub/home-services/internal/model"
)

// BookingRepo provides persistence for bookings and their status log.
// All timestamp fields are stored in UTC.  Writes that must be atomic
// with other tables (wallet debit, promo counters) are exposed as *Tx
// methods and orchestrated by the Finalizer.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, user_id, worker_id, service_id, category_id,
	address_line, address_city, address_pincode, slot_time, notes, addons,
	status, assignment_mode, assignment_reason, strict_worker, requested_worker_id,
	base_amount, visit_fee, addons_amount, tax_amount, discount_amount, total_amount, currency,
	payment_method, payment_status, idempotency_key,
	promo_code, promo_discount, referral_code, referral_discount, membership_plan, membership_discount,
	conversation_id, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(s rowScanner) (*model.Booking, error) {
	var b model.Booking
	var workerID, serviceID, requestedWorkerID, conversationID sql.NullInt64
	var idemKey sql.NullString
	var addonsJSON []byte
	err := s.Scan(
		&b.ID, &b.UserID, &workerID, &serviceID, &b.CategoryID,
		&b.Address.Line, &b.Address.City, &b.Address.Pincode, &b.SlotTime, &b.Notes, &addonsJSON,
		&b.Status, &b.AssignmentMode, &b.AssignmentReason, &b.StrictWorker, &requestedWorkerID,
		&b.Price.Base, &b.Price.VisitFee, &b.Price.Addons, &b.Price.Tax, &b.Price.Discount, &b.Price.Total, &b.Price.Currency,
		&b.PaymentMethod, &b.PaymentStatus, &idemKey,
		&b.PromoCode, &b.PromoDiscount, &b.ReferralCode, &b.ReferralDiscount, &b.MembershipPlan, &b.MembershipDiscount,
		&conversationID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if workerID.Valid {
		v := uint64(workerID.Int64)
		b.WorkerID = &v
	}
	if serviceID.Valid {
		v := uint64(serviceID.Int64)
		b.ServiceID = &v
	}
	if requestedWorkerID.Valid {
		v := uint64(requestedWorkerID.Int64)
		b.RequestedWorkerID = &v
	}
	if conversationID.Valid {
		v := uint64(conversationID.Int64)
		b.ConversationID = &v
	}
	if idemKey.Valid {
		k := idemKey.String
		b.IdempotencyKey = &k
	}
	b.Addons = []string{}
	if len(addonsJSON) > 0 {
		_ = json.Unmarshal(addonsJSON, &b.Addons)
	}
	return &b, nil
}

// FindByIdempotencyKey returns the booking a requester previously
// committed under the given client key, or nil when no such booking
// exists.
func (r *BookingRepo) FindByIdempotencyKey(ctx context.Context, userID uint64, key string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
		WHERE user_id = ? AND idempotency_key = ?
		ORDER BY id DESC LIMIT 1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, userID, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// FindActiveAtSlot returns the id of another active booking the
// requester holds at exactly the given slot time, or 0 when none
// exists.
func (r *BookingRepo) FindActiveAtSlot(ctx context.Context, userID uint64, slot time.Time) (uint64, error) {
	const q = `SELECT id FROM bookings
		WHERE user_id = ? AND slot_time = ?
		  AND status IN ('confirmed','assigned','onway','working')
		ORDER BY id DESC LIMIT 1`
	var id uint64
	err := r.db.QueryRowContext(ctx, q, userID, slot.UTC()).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// FindRecentDuplicate returns the id of a booking with the same
// requester, service and slot created after `since`.  This backs the
// duplicate-submission heuristic for clients that do not send an
// idempotency key.
func (r *BookingRepo) FindRecentDuplicate(ctx context.Context, userID uint64, serviceID *uint64, workerID *uint64, slot time.Time, since time.Time) (uint64, error) {
	var id uint64
	var err error
	if serviceID != nil {
		const q = `SELECT id FROM bookings
			WHERE user_id = ? AND service_id = ? AND slot_time = ? AND created_at >= ?
			ORDER BY id DESC LIMIT 1`
		err = r.db.QueryRowContext(ctx, q, userID, *serviceID, slot.UTC(), since.UTC()).Scan(&id)
	} else if workerID != nil {
		const q = `SELECT id FROM bookings
			WHERE user_id = ? AND requested_worker_id = ? AND slot_time = ? AND created_at >= ?
			ORDER BY id DESC LIMIT 1`
		err = r.db.QueryRowContext(ctx, q, userID, *workerID, slot.UTC(), since.UTC()).Scan(&id)
	} else {
		return 0, nil
	}
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// WorkerHasConflictAt reports whether the worker already has an active
// booking at the given slot time.
func (r *BookingRepo) WorkerHasConflictAt(ctx context.Context, workerID uint64, slot time.Time) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
		WHERE worker_id = ? AND slot_time = ?
		  AND status IN ('confirmed','assigned','onway','working')`
	var n int
	if err := r.db.QueryRowContext(ctx, q, workerID, slot.UTC()).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountCreatedSince counts the requester's bookings created after
// `since`, regardless of status.  Used by the velocity heuristics.
func (r *BookingRepo) CountCreatedSince(ctx context.Context, userID uint64, since time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE user_id = ? AND created_at >= ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID, since.UTC()).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// HasBookingNearSlot reports whether the requester has any prior
// booking whose slot lies within `within` of the given slot.
func (r *BookingRepo) HasBookingNearSlot(ctx context.Context, userID uint64, slot time.Time, within time.Duration) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
		WHERE user_id = ? AND slot_time BETWEEN ? AND ?`
	lo := slot.Add(-within).UTC()
	hi := slot.Add(within).UTC()
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID, lo, hi).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasReferralDiscount reports whether the requester already consumed a
// referral discount on any booking.  Referral applies only once per
// requester across all bookings.
func (r *BookingRepo) HasReferralDiscount(ctx context.Context, userID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE user_id = ? AND referral_discount > 0`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided record.  A duplicate (user_id, idempotency_key) violation
// is reported as ErrIdempotencyReplay so the caller can recover by
// re-reading the committed booking.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	addonsJSON, err := json.Marshal(b.Addons)
	if err != nil {
		return err
	}
	const q = `INSERT INTO bookings (user_id, worker_id, service_id, category_id,
		address_line, address_city, address_pincode, slot_time, notes, addons,
		status, assignment_mode, assignment_reason, strict_worker, requested_worker_id,
		base_amount, visit_fee, addons_amount, tax_amount, discount_amount, total_amount, currency,
		payment_method, payment_status, idempotency_key,
		promo_code, promo_discount, referral_code, referral_discount, membership_plan, membership_discount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.UserID, nullableID(b.WorkerID), nullableID(b.ServiceID), b.CategoryID,
		b.Address.Line, b.Address.City, b.Address.Pincode, b.SlotTime.UTC(), b.Notes, string(addonsJSON),
		b.Status, b.AssignmentMode, b.AssignmentReason, b.StrictWorker, nullableID(b.RequestedWorkerID),
		b.Price.Base, b.Price.VisitFee, b.Price.Addons, b.Price.Tax, b.Price.Discount, b.Price.Total, b.Price.Currency,
		b.PaymentMethod, b.PaymentStatus, nullableStr(b.IdempotencyKey),
		b.PromoCode, b.PromoDiscount, b.ReferralCode, b.ReferralDiscount, b.MembershipPlan, b.MembershipDiscount,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrIdempotencyReplay
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// AddStatusLogTx appends one status-log entry for a booking within an
// existing transaction.
func (r *BookingRepo) AddStatusLogTx(ctx context.Context, tx *sql.Tx, e *model.BookingStatusLog) error {
	const q = `INSERT INTO booking_status_log (booking_id, status, actor, note) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, e.BookingID, e.Status, e.Actor, e.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// SetConversation links a booking to its conversation after the
// conversation row was created.  Best-effort; callers log failures.
func (r *BookingRepo) SetConversation(ctx context.Context, bookingID, conversationID uint64) error {
	const q = `UPDATE bookings SET conversation_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, conversationID, bookingID)
	return err
}

// GetByIDForUser returns a single booking owned by the given user.
// sql.ErrNoRows is returned when it does not exist; ErrForbidden when
// it belongs to someone else.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, bookingID))
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

// ListByUser returns the requester's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
		WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullableID(v *uint64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableStr(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
