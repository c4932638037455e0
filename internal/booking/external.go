package booking

import (
	"context"
	"time"

	"github.com/sevahub/home-services/internal/model"
	"github.com/sevahub/home-services/internal/queue"
)

// External collaborators.  Their internals (ranking heuristics,
// notification transports, wallet ledger bookkeeping) live outside
// this module; the pipeline only depends on these shapes.

// MatchRequest asks the matching service for the best worker for a
// category in an area at a slot, optionally excluding workers that
// were already tried.
type MatchRequest struct {
	CategoryID uint64
	Pincode    string
	City       string
	Slot       time.Time
	Excluded   []uint64
}

// MatchResult is a candidate worker with the matcher's opaque score.
type MatchResult struct {
	WorkerID uint64
	Score    float64
}

// Matcher ranks workers.  A nil result with nil error means no
// candidate exists.
type Matcher interface {
	Match(ctx context.Context, req MatchRequest) (*MatchResult, error)
}

// AvailabilityChecker decides whether a worker's schedule admits the
// slot.  It is consulted both for the live check and for the
// forward-scanning nearest-slot search.
type AvailabilityChecker interface {
	Available(w *model.Worker, slot, now time.Time) bool
}

// WalletLedger credits wallets; used for referral rewards.  Debits on
// the critical path run inside the finalize transaction instead.
type WalletLedger interface {
	Credit(ctx context.Context, userID uint64, role string, amount int64, reason, reference string) error
}

// Events publishes side-effect jobs to the outbound queue.  Publish
// failures are logged by callers and never fail a booking.
type Events interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	PublishCRM(ctx context.Context, ev queue.CRMEvent) error
}
