package booking

import (
	"testing"
	"time"

	"github.com/sevahub/home-services/internal/config"
)

// fixedNow is a Monday morning so weekday schedules admit it.
var fixedNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func testBookingConfig() config.BookingConfig {
	return config.BookingConfig{
		LeadTime:        15 * time.Minute,
		ClockSkewGrace:  2 * time.Minute,
		DuplicateWindow: 5 * time.Minute,

		ReferralDiscount: 100,
		ReferralReward:   50,

		FraudWindow:             30 * time.Minute,
		VelocityFlagThreshold:   5,
		VelocityRejectThreshold: 8,
		SameSlotWindow:          5 * time.Minute,
		HighValueThreshold:      5000,

		NearestSlotStep:    30 * time.Minute,
		NearestSlotHorizon: 14 * 24 * time.Hour,
		NearestSlotCount:   5,

		IdempotencyKeyMax: 100,
		Currency:          "INR",
	}
}

func testRateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:    true,
		IPLimit:    30,
		IPWindow:   time.Minute,
		UserLimit:  10,
		UserWindow: time.Minute,
		Prefix:     "rl",
	}
}

// testEnv bundles the orchestrator with all collaborators mocked and
// the clock pinned to fixedNow.
type testEnv struct {
	bookings    *MockBookingStore
	catalog     *MockCatalogStore
	workers     *MockWorkerStore
	promos      *MockPromoStore
	referrals   *MockReferralStore
	memberships *MockMembershipStore
	fraud       *MockFraudStore
	users       *MockUserStore
	convos      *MockConversationStore
	committer   *MockCommitter
	matcher     *MockMatcher
	wallet      *MockWalletLedger
	events      *MockEvents

	orc *Orchestrator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		bookings:    &MockBookingStore{},
		catalog:     &MockCatalogStore{},
		workers:     &MockWorkerStore{},
		promos:      &MockPromoStore{},
		referrals:   &MockReferralStore{},
		memberships: &MockMembershipStore{},
		fraud:       &MockFraudStore{},
		users:       &MockUserStore{},
		convos:      &MockConversationStore{},
		committer:   &MockCommitter{},
		matcher:     &MockMatcher{},
		wallet:      &MockWalletLedger{},
		events:      &MockEvents{},
	}
	e.orc = NewOrchestrator(testBookingConfig(), testRateLimitConfig(), Deps{
		Bookings:    e.bookings,
		Catalog:     e.catalog,
		Workers:     e.workers,
		Promos:      e.promos,
		Referrals:   e.referrals,
		Memberships: e.memberships,
		Fraud:       e.fraud,
		Users:       e.users,
		Convos:      e.convos,
		Committer:   e.committer,
		Matcher:     e.matcher,
		Wallet:      e.wallet,
		Events:      e.events,
	})
	e.orc.clock = func() time.Time { return fixedNow }
	return e
}

func u64(v uint64) *uint64 { return &v }

func boolPtr(v bool) *bool { return &v }
