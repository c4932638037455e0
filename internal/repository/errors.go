// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// to distinguish between different failure scenarios without string
// matching: for example, ErrInsufficientFunds maps to a business-rule
// rejection while ErrIdempotencyReplay triggers the transparent
// re-read of an already committed booking.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInsufficientFunds is returned by the wallet ledger when a debit
// would take the balance below zero.  The whole admission fails.
var ErrInsufficientFunds = errors.New("insufficient wallet balance")

// ErrIdempotencyReplay is returned when the booking insert hit the
// (user_id, idempotency_key) uniqueness constraint, meaning a
// concurrent identical request already committed.  Callers recover by
// re-reading the committed booking instead of surfacing an error.
var ErrIdempotencyReplay = errors.New("idempotency key already used")

// isDuplicateEntry reports whether err is a MySQL duplicate-key
// violation (error 1062).
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
