package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/sevahub/home-services/internal/model"
)

// Assignment reasons recorded on the booking for audit.
const (
	reasonManualSelected = "Manually selected by customer"
	reasonAutoMatched    = "Auto matched with score %.2f"
	reasonAutoBusy       = "Auto matched worker busy"
	reasonNoAutoMatch    = "No matching worker available"
	reasonAlternate      = "Selected worker unavailable. Auto switched to alternate worker"
)

// assignmentOutcome is the synchronous decision of the assignment
// strategy: a worker (or none) plus the booking status and the
// audit reason.
type assignmentOutcome struct {
	workerID *uint64
	status   string
	reason   string
	mode     string
}

// vetResult captures the ordered eligibility checks of a manually
// requested worker and which one failed first.
type vetResult struct {
	worker *model.Worker
	checks EligibilityChecks
	failed string // empty when all checks passed
}

// assign resolves the worker for the admission.  It never mutates
// storage; conflicts are re-checked point-in-time right before the
// finalize commit by virtue of running last in the pipeline.
func (o *Orchestrator) assign(ctx context.Context, a *admission, p *pricedRequest, now time.Time) (*assignmentOutcome, *AdmitError) {
	if !a.manual {
		return o.assignAuto(ctx, a, p, nil)
	}

	vet, aerr := o.vetWorker(ctx, a, p, now)
	if aerr != nil {
		return nil, aerr
	}
	if vet.failed == "" {
		id := vet.worker.ID
		return &assignmentOutcome{
			workerID: &id,
			status:   model.BookingStatusAssigned,
			reason:   reasonManualSelected,
			mode:     model.AssignmentManual,
		}, nil
	}

	if a.strict {
		return nil, o.workerUnavailableErr(ctx, vet, a, now, true)
	}

	// Non-strict: try an alternate through the matcher, excluding the
	// requested worker.  Falling back to the structured rejection only
	// when no alternate is free at the slot.
	alt, aerr := o.assignAuto(ctx, a, p, []uint64{*a.req.ManualWorkerID})
	if aerr != nil {
		return nil, aerr
	}
	if alt.workerID != nil {
		alt.reason = reasonAlternate
		alt.mode = model.AssignmentManual
		return alt, nil
	}
	return nil, o.workerUnavailableErr(ctx, vet, a, now, false)
}

// assignAuto asks the matching service for a candidate and verifies
// it is still free at the slot before committing to it.
func (o *Orchestrator) assignAuto(ctx context.Context, a *admission, p *pricedRequest, excluded []uint64) (*assignmentOutcome, *AdmitError) {
	res, err := o.matcher.Match(ctx, MatchRequest{
		CategoryID: p.categoryID,
		Pincode:    a.req.Address.Pincode,
		City:       a.req.Address.City,
		Slot:       a.slot,
		Excluded:   excluded,
	})
	if err != nil {
		return nil, o.internalErr(err)
	}
	if res == nil {
		return &assignmentOutcome{
			status: model.BookingStatusConfirmed,
			reason: reasonNoAutoMatch,
			mode:   model.AssignmentAuto,
		}, nil
	}
	busy, err := o.bookings.WorkerHasConflictAt(ctx, res.WorkerID, a.slot)
	if err != nil {
		return nil, o.internalErr(err)
	}
	if busy {
		return &assignmentOutcome{
			status: model.BookingStatusConfirmed,
			reason: reasonAutoBusy,
			mode:   model.AssignmentAuto,
		}, nil
	}
	id := res.WorkerID
	return &assignmentOutcome{
		workerID: &id,
		status:   model.BookingStatusAssigned,
		reason:   fmt.Sprintf(reasonAutoMatched, res.Score),
		mode:     model.AssignmentAuto,
	}, nil
}

// vetWorker runs the fixed-order eligibility checks for a manually
// requested worker: existence/eligibility, area, category (skipped in
// worker-priced mode), schedule availability, slot conflict.  The
// first failing check is recorded so rejections always name the same
// reason regardless of how many checks would fail.
func (o *Orchestrator) vetWorker(ctx context.Context, a *admission, p *pricedRequest, now time.Time) (*vetResult, *AdmitError) {
	v := &vetResult{}
	w, err := o.workers.GetByID(ctx, *a.req.ManualWorkerID)
	if err != nil {
		return nil, o.internalErr(err)
	}
	if w == nil {
		v.failed = "exists"
		return v, nil
	}
	v.worker = w
	v.checks.Exists = true
	if !w.Eligible() {
		v.failed = "eligible"
		return v, nil
	}
	v.checks.Eligible = true

	serves, err := o.workers.ServesArea(ctx, w.ID, a.req.Address.Pincode, a.req.Address.City)
	if err != nil {
		return nil, o.internalErr(err)
	}
	v.checks.ServesArea = serves
	if !serves {
		v.failed = "area"
		return v, nil
	}

	if _, workerPriced := a.mode.(WorkerPriced); !workerPriced {
		supports, err := o.workers.SupportsCategory(ctx, w.ID, p.categoryID)
		if err != nil {
			return nil, o.internalErr(err)
		}
		v.checks.SupportsCategory = supports
		if !supports {
			v.failed = "category"
			return v, nil
		}
	} else {
		v.checks.SupportsCategory = true
	}

	v.checks.Available = o.availability.Available(w, a.slot, now)
	if !v.checks.Available {
		v.failed = "availability"
		return v, nil
	}

	busy, err := o.bookings.WorkerHasConflictAt(ctx, w.ID, a.slot)
	if err != nil {
		return nil, o.internalErr(err)
	}
	v.checks.FreeAtSlot = !busy
	if busy {
		v.failed = "conflict"
		return v, nil
	}
	return v, nil
}

// workerUnavailableErr builds the structured 409 for a failed manual
// assignment, including the worker's nearest available slots and the
// remediation options open to the customer.
func (o *Orchestrator) workerUnavailableErr(ctx context.Context, vet *vetResult, a *admission, now time.Time, strict bool) *AdmitError {
	code := CodeManualWorkerUnavailable
	msg := "the requested worker does not exist"
	var nearest []time.Time
	if vet.worker != nil {
		code = CodeStrictWorkerUnavailable
		msg = unavailableMessage(vet.failed)
		nearest = o.nearestSlots(ctx, vet.worker, now)
	}
	checks := vet.checks
	strictVal := strict
	return &AdmitError{
		Status:       409,
		Code:         code,
		Message:      msg,
		StrictWorker: &strictVal,
		Checks:       &checks,
		NearestSlots: nearest,
		Options: &RemediationOptions{
			OfferNearestSlot:     len(nearest) > 0,
			RequestCallback:      true,
			AllowAlternateWorker: true,
			Cancel:               true,
		},
	}
}

func unavailableMessage(failed string) string {
	switch failed {
	case "eligible":
		return "the requested worker is not currently taking bookings"
	case "area":
		return "the requested worker does not serve this area"
	case "category":
		return "the requested worker does not offer this service category"
	case "availability":
		return "the requested worker is not available at this time"
	case "conflict":
		return "the requested worker already has a booking at this time"
	}
	return "the requested worker is unavailable"
}

// nearestSlots scans forward from the first step-aligned instant
// after the lead time, collecting schedule-available, unconflicted
// slots until the configured count or horizon is reached.
func (o *Orchestrator) nearestSlots(ctx context.Context, w *model.Worker, now time.Time) []time.Time {
	step := o.cfg.NearestSlotStep
	start := now.Add(o.cfg.LeadTime).Truncate(step).Add(step)
	end := now.Add(o.cfg.NearestSlotHorizon)

	slots := make([]time.Time, 0, o.cfg.NearestSlotCount)
	for t := start; t.Before(end) && len(slots) < o.cfg.NearestSlotCount; t = t.Add(step) {
		if !o.availability.Available(w, t, now) {
			continue
		}
		busy, err := o.bookings.WorkerHasConflictAt(ctx, w.ID, t)
		if err != nil || busy {
			continue
		}
		slots = append(slots, t)
	}
	return slots
}

// workerMissingErr is the pricing-stage variant of the structured 409
// used when worker-priced pricing cannot even find the worker record.
func (o *Orchestrator) workerMissingErr(a *admission) *AdmitError {
	strictVal := a.strict
	return &AdmitError{
		Status:       409,
		Code:         CodeManualWorkerUnavailable,
		Message:      "the requested worker does not exist",
		StrictWorker: &strictVal,
		Checks:       &EligibilityChecks{},
		Options: &RemediationOptions{
			RequestCallback:      true,
			AllowAlternateWorker: true,
			Cancel:               true,
		},
	}
}
