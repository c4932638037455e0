package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sevahub/home-services/internal/model"
	"github.com/sevahub/home-services/internal/ratelimit"
)

func TestGuardUserAllowed(t *testing.T) {
	e := newTestEnv(t)
	limiter := &MockRateLimiter{}
	e.orc.limiter = limiter
	ctx := context.Background()

	limiter.On("Allow", ctx, "user:7:bookings", 10, time.Minute).
		Return(ratelimit.Decision{Allowed: true, Remaining: 9}, nil)

	assert.Nil(t, e.orc.guardUser(ctx, 7))
	e.fraud.AssertNotCalled(t, "RecordSignal", mock.Anything, mock.Anything)
}

func TestGuardUserDeniedRecordsCriticalSignal(t *testing.T) {
	e := newTestEnv(t)
	limiter := &MockRateLimiter{}
	e.orc.limiter = limiter
	ctx := context.Background()

	limiter.On("Allow", ctx, "user:7:bookings", 10, time.Minute).
		Return(ratelimit.Decision{Allowed: false, RetryAfter: 30 * time.Second}, nil)

	var got *model.FraudSignal
	e.fraud.On("RecordSignal", ctx, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(*model.FraudSignal)
	}).Return(nil)

	aerr := e.orc.guardUser(ctx, 7)
	assert.NotNil(t, aerr)
	assert.Equal(t, 429, aerr.Status)
	assert.Equal(t, CodeRateLimited, aerr.Code)
	assert.Equal(t, 30, aerr.RetryAfterSeconds)
	assert.NotNil(t, got)
	assert.Equal(t, model.SeverityCritical, got.Severity)
	assert.Contains(t, got.Reasons, model.ReasonVelocityLimit)
}

func TestGuardUserNilLimiterAllows(t *testing.T) {
	e := newTestEnv(t)
	assert.Nil(t, e.orc.guardUser(context.Background(), 7))
}
