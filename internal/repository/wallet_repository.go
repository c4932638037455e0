package repository

import (
	"context"
	"database/sql"
)

// WalletRepo is the SQL adapter of the wallet ledger.  Every movement
// writes a wallet_transactions row and adjusts the balance in the
// same statement scope; debits that would go negative fail with
// ErrInsufficientFunds.
type WalletRepo struct {
	db *sql.DB
}

// NewWalletRepo returns a new WalletRepo bound to the given database.
func NewWalletRepo(db *sql.DB) *WalletRepo { return &WalletRepo{db: db} }

// DebitTx withdraws amount from the user's wallet inside an existing
// transaction.  The guarded UPDATE only succeeds when the balance
// covers the amount, so two concurrent debits cannot overdraw.
func (r *WalletRepo) DebitTx(ctx context.Context, tx *sql.Tx, userID uint64, role string, amount int64, reason, reference string) error {
	if amount <= 0 {
		return nil
	}
	const upd = `UPDATE wallets SET balance = balance - ? WHERE user_id = ? AND role = ? AND balance >= ?`
	res, err := tx.ExecContext(ctx, upd, amount, userID, role, amount)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientFunds
	}
	const ins = `INSERT INTO wallet_transactions (user_id, role, direction, reason, amount, reference)
		VALUES (?, ?, 'debit', ?, ?, ?)`
	_, err = tx.ExecContext(ctx, ins, userID, role, reason, amount, reference)
	return err
}

// Credit deposits amount into the user's wallet, creating the wallet
// row on first use.  Used for referral rewards.
func (r *WalletRepo) Credit(ctx context.Context, userID uint64, role string, amount int64, reason, reference string) error {
	if amount <= 0 {
		return nil
	}
	const upd = `INSERT INTO wallets (user_id, role, balance) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE balance = balance + VALUES(balance)`
	if _, err := r.db.ExecContext(ctx, upd, userID, role, amount); err != nil {
		return err
	}
	const ins = `INSERT INTO wallet_transactions (user_id, role, direction, reason, amount, reference)
		VALUES (?, ?, 'credit', ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, ins, userID, role, reason, amount, reference)
	return err
}
