package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sevahub/home-services/internal/model"
)

func manualAdmission(workerID uint64, strict bool) *admission {
	return &admission{
		userID: 7,
		req: &AdmitRequest{
			ManualWorkerID: u64(workerID),
			Address:        model.Address{Pincode: "560001", City: "Bengaluru"},
		},
		slot:   fixedNow.Add(4 * time.Hour),
		mode:   CatalogPriced{ServiceID: 1},
		manual: true,
		strict: strict,
	}
}

func eligibleWorker(id uint64) *model.Worker {
	return &model.Worker{
		ID: id, Status: model.WorkerStatusApproved, FeePaid: true, IsOnline: true,
		WorkStartMin: 8 * 60, WorkEndMin: 20 * 60, WorksWeekends: true,
		Rating: 4.5,
	}
}

func TestAssignManualSuccess(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := manualAdmission(5, true)
	p := &pricedRequest{categoryID: 3}

	e.workers.On("GetByID", ctx, uint64(5)).Return(eligibleWorker(5), nil)
	e.workers.On("ServesArea", ctx, uint64(5), "560001", "Bengaluru").Return(true, nil)
	e.workers.On("SupportsCategory", ctx, uint64(5), uint64(3)).Return(true, nil)
	e.bookings.On("WorkerHasConflictAt", ctx, uint64(5), a.slot).Return(false, nil)

	out, aerr := e.orc.assign(ctx, a, p, fixedNow)
	assert.Nil(t, aerr)
	assert.Equal(t, uint64(5), *out.workerID)
	assert.Equal(t, model.BookingStatusAssigned, out.status)
	assert.Equal(t, "Manually selected by customer", out.reason)
	assert.Equal(t, model.AssignmentManual, out.mode)
}

func TestAssignManualChecksRunInOrder(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := manualAdmission(5, true)
	p := &pricedRequest{categoryID: 3}

	e.workers.On("GetByID", ctx, uint64(5)).Return(eligibleWorker(5), nil)
	e.workers.On("ServesArea", ctx, uint64(5), "560001", "Bengaluru").Return(false, nil)
	// Later checks must not run once the area check failed.

	vet, aerr := e.orc.vetWorker(ctx, a, p, fixedNow)
	assert.Nil(t, aerr)
	assert.Equal(t, "area", vet.failed)
	assert.True(t, vet.checks.Exists)
	assert.True(t, vet.checks.Eligible)
	assert.False(t, vet.checks.ServesArea)
	assert.False(t, vet.checks.SupportsCategory)
	e.workers.AssertNotCalled(t, "SupportsCategory", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignManualStrictUnavailable(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := manualAdmission(5, true)
	p := &pricedRequest{categoryID: 3}

	w := eligibleWorker(5)
	e.workers.On("GetByID", ctx, uint64(5)).Return(w, nil)
	e.workers.On("ServesArea", ctx, uint64(5), "560001", "Bengaluru").Return(true, nil)
	e.workers.On("SupportsCategory", ctx, uint64(5), uint64(3)).Return(true, nil)
	// Busy at the requested slot; free everywhere else so the nearest
	// slot scan finds alternatives.
	e.bookings.On("WorkerHasConflictAt", ctx, uint64(5), a.slot).Return(true, nil)
	e.bookings.On("WorkerHasConflictAt", ctx, uint64(5), mock.Anything).Return(false, nil)

	_, aerr := e.orc.assign(ctx, a, p, fixedNow)
	assert.NotNil(t, aerr)
	assert.Equal(t, 409, aerr.Status)
	assert.Equal(t, CodeStrictWorkerUnavailable, aerr.Code)
	assert.True(t, *aerr.StrictWorker)
	assert.True(t, aerr.Checks.Available)
	assert.False(t, aerr.Checks.FreeAtSlot)
	assert.Len(t, aerr.NearestSlots, 5)
	assert.True(t, aerr.Options.OfferNearestSlot)
	assert.True(t, aerr.Options.AllowAlternateWorker)
}

func TestAssignManualMissingWorker(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := manualAdmission(5, true)
	p := &pricedRequest{categoryID: 3}

	e.workers.On("GetByID", ctx, uint64(5)).Return(nil, nil)

	_, aerr := e.orc.assign(ctx, a, p, fixedNow)
	assert.NotNil(t, aerr)
	assert.Equal(t, CodeManualWorkerUnavailable, aerr.Code)
	assert.False(t, aerr.Checks.Exists)
	assert.Empty(t, aerr.NearestSlots)
}

func TestAssignManualNonStrictFallsBackToAlternate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := manualAdmission(5, false)
	p := &pricedRequest{categoryID: 3}

	e.workers.On("GetByID", ctx, uint64(5)).Return(eligibleWorker(5), nil)
	e.workers.On("ServesArea", ctx, uint64(5), "560001", "Bengaluru").Return(true, nil)
	e.workers.On("SupportsCategory", ctx, uint64(5), uint64(3)).Return(true, nil)
	e.bookings.On("WorkerHasConflictAt", ctx, uint64(5), a.slot).Return(true, nil)

	e.matcher.On("Match", ctx, MatchRequest{
		CategoryID: 3, Pincode: "560001", City: "Bengaluru",
		Slot: a.slot, Excluded: []uint64{5},
	}).Return(&MatchResult{WorkerID: 9, Score: 0.8}, nil)
	e.bookings.On("WorkerHasConflictAt", ctx, uint64(9), a.slot).Return(false, nil)

	out, aerr := e.orc.assign(ctx, a, p, fixedNow)
	assert.Nil(t, aerr)
	assert.Equal(t, uint64(9), *out.workerID)
	assert.Equal(t, "Selected worker unavailable. Auto switched to alternate worker", out.reason)
	assert.Equal(t, model.AssignmentManual, out.mode)
}

func TestAssignWorkerPricedSkipsCategoryCheck(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := manualAdmission(5, true)
	a.mode = WorkerPriced{WorkerID: 5}
	p := &pricedRequest{}

	e.workers.On("GetByID", ctx, uint64(5)).Return(eligibleWorker(5), nil)
	e.workers.On("ServesArea", ctx, uint64(5), "560001", "Bengaluru").Return(true, nil)
	e.bookings.On("WorkerHasConflictAt", ctx, uint64(5), a.slot).Return(false, nil)

	vet, aerr := e.orc.vetWorker(ctx, a, p, fixedNow)
	assert.Nil(t, aerr)
	assert.Empty(t, vet.failed)
	assert.True(t, vet.checks.SupportsCategory)
	e.workers.AssertNotCalled(t, "SupportsCategory", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignAutoMatched(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := &admission{
		userID: 7,
		req:    &AdmitRequest{Address: model.Address{Pincode: "560001"}},
		slot:   fixedNow.Add(4 * time.Hour),
		mode:   CatalogPriced{ServiceID: 1},
	}
	p := &pricedRequest{categoryID: 3}

	e.matcher.On("Match", ctx, mock.Anything).Return(&MatchResult{WorkerID: 9, Score: 0.9}, nil)
	e.bookings.On("WorkerHasConflictAt", ctx, uint64(9), a.slot).Return(false, nil)

	out, aerr := e.orc.assign(ctx, a, p, fixedNow)
	assert.Nil(t, aerr)
	assert.Equal(t, uint64(9), *out.workerID)
	assert.Equal(t, "Auto matched with score 0.90", out.reason)
	assert.Equal(t, model.AssignmentAuto, out.mode)
}

func TestAssignAutoMatchedWorkerBusy(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := &admission{
		userID: 7,
		req:    &AdmitRequest{Address: model.Address{Pincode: "560001"}},
		slot:   fixedNow.Add(4 * time.Hour),
		mode:   CatalogPriced{ServiceID: 1},
	}
	p := &pricedRequest{categoryID: 3}

	e.matcher.On("Match", ctx, mock.Anything).Return(&MatchResult{WorkerID: 9, Score: 0.9}, nil)
	e.bookings.On("WorkerHasConflictAt", ctx, uint64(9), a.slot).Return(true, nil)

	out, aerr := e.orc.assign(ctx, a, p, fixedNow)
	assert.Nil(t, aerr)
	assert.Nil(t, out.workerID)
	assert.Equal(t, model.BookingStatusConfirmed, out.status)
	assert.Equal(t, "Auto matched worker busy", out.reason)
}

func TestAssignAutoNoCandidate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := &admission{
		userID: 7,
		req:    &AdmitRequest{Address: model.Address{Pincode: "560001"}},
		slot:   fixedNow.Add(4 * time.Hour),
		mode:   CatalogPriced{ServiceID: 1},
	}
	p := &pricedRequest{categoryID: 3}

	e.matcher.On("Match", ctx, mock.Anything).Return(nil, nil)

	out, aerr := e.orc.assign(ctx, a, p, fixedNow)
	assert.Nil(t, aerr)
	assert.Nil(t, out.workerID)
	assert.Equal(t, model.BookingStatusConfirmed, out.status)
}
