package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sevahub/home-services/internal/model"
)

// FinalizeSet is everything the booking commit must persist
// atomically: the booking itself, its seeded status-log entries, the
// promo counter bump, the membership usage row, the wallet debit and
// the payment record.  Either all of it lands or none of it does.
type FinalizeSet struct {
	Booking       *model.Booking
	StatusLog     []model.BookingStatusLog
	PromoID       uint64 // increment used_count when non-zero
	MembershipID  uint64 // record usage when non-zero
	WalletDebit   int64  // debit the requester when > 0 (wallet payment)
	OnlinePayment bool   // create a paid payment record (demo-mode online flow)
}

// Finalizer commits a FinalizeSet in one database transaction.  It is
// the only writer of bookings; conflict checks stay point-in-time
// queries done by the orchestrator just before Commit.
type Finalizer struct {
	db          *sql.DB
	bookings    *BookingRepo
	promos      *PromoRepo
	memberships *MembershipRepo
	wallets     *WalletRepo
}

// NewFinalizer wires the repositories whose *Tx methods participate
// in the booking commit.
func NewFinalizer(db *sql.DB, bookings *BookingRepo, promos *PromoRepo, memberships *MembershipRepo, wallets *WalletRepo) *Finalizer {
	return &Finalizer{db: db, bookings: bookings, promos: promos, memberships: memberships, wallets: wallets}
}

// Commit persists the set.  On success the booking's ID and payment
// reference are populated.  ErrIdempotencyReplay propagates unchanged
// so the caller can recover by re-reading; ErrInsufficientFunds
// propagates when a wallet debit cannot be covered.
func (f *Finalizer) Commit(ctx context.Context, set *FinalizeSet) error {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finalize tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b := set.Booking
	if err := f.bookings.CreateTx(ctx, tx, b); err != nil {
		return err
	}
	for i := range set.StatusLog {
		set.StatusLog[i].BookingID = b.ID
		if err := f.bookings.AddStatusLogTx(ctx, tx, &set.StatusLog[i]); err != nil {
			return fmt.Errorf("status log: %w", err)
		}
	}
	if set.PromoID != 0 {
		if err := f.promos.IncrementUsageTx(ctx, tx, set.PromoID); err != nil {
			return fmt.Errorf("promo usage: %w", err)
		}
	}
	if set.MembershipID != 0 {
		if err := f.memberships.RecordUsageTx(ctx, tx, set.MembershipID, b.ID, b.MembershipDiscount); err != nil {
			return fmt.Errorf("membership usage: %w", err)
		}
	}

	reference := uuid.NewString()
	if set.WalletDebit > 0 {
		if err := f.wallets.DebitTx(ctx, tx, b.UserID, model.RoleUser, set.WalletDebit, "booking_payment", reference); err != nil {
			return err
		}
		if err := f.insertPaymentTx(ctx, tx, b, "paid", reference); err != nil {
			return err
		}
	} else if set.OnlinePayment {
		if err := f.insertPaymentTx(ctx, tx, b, "paid", reference); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit finalize tx: %w", err)
	}
	committed = true
	return nil
}

func (f *Finalizer) insertPaymentTx(ctx context.Context, tx *sql.Tx, b *model.Booking, status, reference string) error {
	const q = `INSERT INTO payments (booking_id, user_id, amount, method, status, reference)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, b.ID, b.UserID, b.Price.Total, b.PaymentMethod, status, reference); err != nil {
		return fmt.Errorf("payment record: %w", err)
	}
	return nil
}
