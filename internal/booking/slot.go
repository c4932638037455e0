package booking

import (
	"context"
	"fmt"
	"time"
)

// parseSlot parses the requested slot time and enforces the temporal
// rules: not in the past (within a clock-skew grace) and, unless the
// platform runs 24x7, at least the configured lead time ahead of now.
func (o *Orchestrator) parseSlot(raw string, now time.Time) (time.Time, *AdmitError) {
	slot, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errInvalid("slotTime must be a valid RFC3339 timestamp")
	}
	slot = slot.UTC()
	if slot.Before(now.Add(-o.cfg.ClockSkewGrace)) {
		return time.Time{}, errInvalid("slotTime is in the past")
	}
	if !o.cfg.Open247 && slot.Before(now.Add(o.cfg.LeadTime)) {
		return time.Time{}, errInvalid(fmt.Sprintf(
			"slotTime must be at least %d minutes from now", int(o.cfg.LeadTime.Minutes())))
	}
	return slot, nil
}

// checkConflicts runs the two blocking conflict checks: another
// active booking by the same requester at the exact slot, and the
// duplicate-submission heuristic for clients without an idempotency
// key.  Both return 409 carrying the existing booking id.
func (o *Orchestrator) checkConflicts(ctx context.Context, a *admission, now time.Time) *AdmitError {
	existingID, err := o.bookings.FindActiveAtSlot(ctx, a.userID, a.slot)
	if err != nil {
		return o.internalErr(err)
	}
	if existingID != 0 {
		return errConflict(CodeSlotConflict,
			"you already have an active booking at this time", existingID)
	}

	dupID, err := o.bookings.FindRecentDuplicate(ctx, a.userID, a.req.ServiceID, a.req.ManualWorkerID,
		a.slot, now.Add(-o.cfg.DuplicateWindow))
	if err != nil {
		return o.internalErr(err)
	}
	if dupID != 0 {
		return errConflict(CodeDuplicateBooking,
			"an identical booking was submitted moments ago", dupID)
	}
	return nil
}
