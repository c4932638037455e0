package booking

import (
	"context"

	"github.com/sevahub/home-services/internal/model"
)

// resolveIdempotent returns the previously committed booking for the
// requester's client key, or nil when the key is new.  A hit
// short-circuits every downstream stage: no pricing, no assignment,
// no side effects.
func (o *Orchestrator) resolveIdempotent(ctx context.Context, userID uint64, key string) (*model.Booking, error) {
	if key == "" {
		return nil, nil
	}
	return o.bookings.FindByIdempotencyKey(ctx, userID, key)
}

// recoverIdempotentRace handles the write-time race: two concurrent
// requests carried the same key and the other one won the insert.
// The committed booking is re-read and treated as the idempotent
// result rather than surfacing the uniqueness violation.
func (o *Orchestrator) recoverIdempotentRace(ctx context.Context, userID uint64, key string) (*model.Booking, error) {
	b, err := o.bookings.FindByIdempotencyKey(ctx, userID, key)
	if err != nil {
		return nil, err
	}
	return b, nil
}
