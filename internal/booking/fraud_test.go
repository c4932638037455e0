package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sevahub/home-services/internal/model"
)

func fraudAdmission() *admission {
	return &admission{
		userID: 7,
		req:    &AdmitRequest{},
		slot:   fixedNow.Add(4 * time.Hour),
	}
}

func TestEvaluateFraudQuietRequest(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := fraudAdmission()

	e.bookings.On("CountCreatedSince", ctx, uint64(7), mock.Anything).Return(0, nil)
	e.bookings.On("HasBookingNearSlot", ctx, uint64(7), a.slot, 5*time.Minute).Return(false, nil)

	aerr := e.orc.evaluateFraud(ctx, a, 1000, fixedNow)
	assert.Nil(t, aerr)
	e.fraud.AssertNotCalled(t, "RecordSignal", mock.Anything, mock.Anything)
}

func TestEvaluateFraudFifthBookingFlagsVelocity(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := fraudAdmission()

	// Four earlier bookings in the window; this request is the fifth.
	e.bookings.On("CountCreatedSince", ctx, uint64(7), mock.Anything).Return(4, nil)
	e.bookings.On("HasBookingNearSlot", ctx, uint64(7), a.slot, 5*time.Minute).Return(false, nil)

	var got *model.FraudSignal
	e.fraud.On("RecordSignal", ctx, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(*model.FraudSignal)
	}).Return(nil)

	aerr := e.orc.evaluateFraud(ctx, a, 1000, fixedNow)
	assert.Nil(t, aerr)
	assert.NotNil(t, got)
	assert.Equal(t, model.SeverityHigh, got.Severity)
	assert.Contains(t, got.Reasons, model.ReasonHighVelocity30m)
}

func TestEvaluateFraudEighthBookingRejected(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := fraudAdmission()

	e.bookings.On("CountCreatedSince", ctx, uint64(7), mock.Anything).Return(7, nil)

	var got *model.FraudSignal
	e.fraud.On("RecordSignal", ctx, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(*model.FraudSignal)
	}).Return(nil)

	aerr := e.orc.evaluateFraud(ctx, a, 1000, fixedNow)
	assert.NotNil(t, aerr)
	assert.Equal(t, 429, aerr.Status)
	assert.Equal(t, CodeSafetyHold, aerr.Code)
	assert.NotNil(t, got)
	assert.Equal(t, model.SeverityCritical, got.Severity)
	assert.Contains(t, got.Reasons, model.ReasonVelocityLimit)
	// The near-slot query must not run once the request is held.
	e.bookings.AssertNotCalled(t, "HasBookingNearSlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateFraudHighValueAndNearSlot(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := fraudAdmission()

	e.bookings.On("CountCreatedSince", ctx, uint64(7), mock.Anything).Return(0, nil)
	e.bookings.On("HasBookingNearSlot", ctx, uint64(7), a.slot, 5*time.Minute).Return(true, nil)

	var got *model.FraudSignal
	e.fraud.On("RecordSignal", ctx, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(*model.FraudSignal)
	}).Return(nil)

	aerr := e.orc.evaluateFraud(ctx, a, 6000, fixedNow)
	assert.Nil(t, aerr)
	assert.NotNil(t, got)
	assert.Equal(t, model.SeverityMedium, got.Severity)
	assert.ElementsMatch(t, []string{model.ReasonRepeatedSameSlot, model.ReasonHighValue}, got.Reasons)
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, model.SeverityCritical, severityFor([]string{model.ReasonVelocityLimit}))
	assert.Equal(t, model.SeverityHigh, severityFor([]string{model.ReasonHighVelocity30m, model.ReasonHighValue}))
	assert.Equal(t, model.SeverityMedium, severityFor([]string{model.ReasonRepeatedSameSlot, model.ReasonHighValue}))
	assert.Equal(t, model.SeverityLow, severityFor([]string{model.ReasonHighValue}))
}
