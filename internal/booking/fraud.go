package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sevahub/home-services/internal/model"
)

// evaluateFraud runs the lightweight heuristics over the requester's
// recent bookings.  Crossing the hard velocity ceiling rejects the
// request outright; everything else only records a signal and lets
// the booking proceed.  Runs after pricing because the high-value
// check needs the final total.
func (o *Orchestrator) evaluateFraud(ctx context.Context, a *admission, total int64, now time.Time) *AdmitError {
	since := now.Add(-o.cfg.FraudWindow)
	recent, err := o.bookings.CountCreatedSince(ctx, a.userID, since)
	if err != nil {
		return o.internalErr(err)
	}

	if recent+1 >= o.cfg.VelocityRejectThreshold {
		o.recordFraud(ctx, a.userID, "booking_velocity", model.SeverityCritical,
			[]string{model.ReasonVelocityLimit},
			fmt.Sprintf(`{"recent":%d,"window":"%s"}`, recent, o.cfg.FraudWindow))
		return errTooMany(CodeSafetyHold, "booking held for safety checks", o.cfg.FraudWindow)
	}

	var reasons []string
	if recent+1 >= o.cfg.VelocityFlagThreshold {
		reasons = append(reasons, model.ReasonHighVelocity30m)
	}
	nearSlot, err := o.bookings.HasBookingNearSlot(ctx, a.userID, a.slot, o.cfg.SameSlotWindow)
	if err != nil {
		return o.internalErr(err)
	}
	if nearSlot {
		reasons = append(reasons, model.ReasonRepeatedSameSlot)
	}
	if total >= o.cfg.HighValueThreshold {
		reasons = append(reasons, model.ReasonHighValue)
	}
	if len(reasons) == 0 {
		return nil
	}

	o.recordFraud(ctx, a.userID, "booking_pattern", severityFor(reasons), reasons,
		fmt.Sprintf(`{"recent":%d,"total":%d,"slot":"%s"}`, recent, total, a.slot.Format(time.RFC3339)))
	return nil
}

// severityFor derives the signal severity from the flag set.
func severityFor(reasons []string) string {
	velocityLimit := false
	highVelocity := false
	for _, r := range reasons {
		switch r {
		case model.ReasonVelocityLimit:
			velocityLimit = true
		case model.ReasonHighVelocity30m:
			highVelocity = true
		}
	}
	switch {
	case velocityLimit:
		return model.SeverityCritical
	case highVelocity:
		return model.SeverityHigh
	case len(reasons) > 1:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// recordFraud appends a signal; storage failures are logged and never
// block the pipeline.
func (o *Orchestrator) recordFraud(ctx context.Context, userID uint64, signalType, severity string, reasons []string, metadata string) {
	sig := &model.FraudSignal{
		UserID:     userID,
		SignalType: signalType,
		Severity:   severity,
		Reasons:    reasons,
		Metadata:   metadata,
	}
	if err := o.fraud.RecordSignal(ctx, sig); err != nil {
		log.Printf("fraud: record signal failed for user=%d: %v", userID, err)
	}
}
