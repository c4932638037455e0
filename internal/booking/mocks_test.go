package booking

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sevahub/home-services/internal/model"
	"github.com/sevahub/home-services/internal/queue"
	"github.com/sevahub/home-services/internal/ratelimit"
	"github.com/sevahub/home-services/internal/repository"
)

// MockBookingStore
type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) FindByIdempotencyKey(ctx context.Context, userID uint64, key string) (*model.Booking, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}
func (m *MockBookingStore) FindActiveAtSlot(ctx context.Context, userID uint64, slot time.Time) (uint64, error) {
	args := m.Called(ctx, userID, slot)
	return args.Get(0).(uint64), args.Error(1)
}
func (m *MockBookingStore) FindRecentDuplicate(ctx context.Context, userID uint64, serviceID, workerID *uint64, slot, since time.Time) (uint64, error) {
	args := m.Called(ctx, userID, serviceID, workerID, slot, since)
	return args.Get(0).(uint64), args.Error(1)
}
func (m *MockBookingStore) WorkerHasConflictAt(ctx context.Context, workerID uint64, slot time.Time) (bool, error) {
	args := m.Called(ctx, workerID, slot)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingStore) CountCreatedSince(ctx context.Context, userID uint64, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}
func (m *MockBookingStore) HasBookingNearSlot(ctx context.Context, userID uint64, slot time.Time, within time.Duration) (bool, error) {
	args := m.Called(ctx, userID, slot, within)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingStore) HasReferralDiscount(ctx context.Context, userID uint64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingStore) SetConversation(ctx context.Context, bookingID, conversationID uint64) error {
	args := m.Called(ctx, bookingID, conversationID)
	return args.Error(0)
}

// MockCatalogStore
type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) GetByID(ctx context.Context, serviceID uint64) (*model.Service, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Service), args.Error(1)
}
func (m *MockCatalogStore) AddonsByNames(ctx context.Context, serviceID uint64, names []string) ([]model.ServiceAddon, error) {
	args := m.Called(ctx, serviceID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ServiceAddon), args.Error(1)
}

// MockWorkerStore
type MockWorkerStore struct {
	mock.Mock
}

func (m *MockWorkerStore) GetByID(ctx context.Context, workerID uint64) (*model.Worker, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Worker), args.Error(1)
}
func (m *MockWorkerStore) ServesArea(ctx context.Context, workerID uint64, pincode, city string) (bool, error) {
	args := m.Called(ctx, workerID, pincode, city)
	return args.Bool(0), args.Error(1)
}
func (m *MockWorkerStore) SupportsCategory(ctx context.Context, workerID, categoryID uint64) (bool, error) {
	args := m.Called(ctx, workerID, categoryID)
	return args.Bool(0), args.Error(1)
}
func (m *MockWorkerStore) ExtrasByNames(ctx context.Context, workerID uint64, names []string) ([]model.WorkerExtraService, error) {
	args := m.Called(ctx, workerID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkerExtraService), args.Error(1)
}

// MockPromoStore
type MockPromoStore struct {
	mock.Mock
}

func (m *MockPromoStore) FindByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PromoCode), args.Error(1)
}
func (m *MockPromoStore) CountUserUsage(ctx context.Context, userID uint64, code string) (int, error) {
	args := m.Called(ctx, userID, code)
	return args.Int(0), args.Error(1)
}

// MockReferralStore
type MockReferralStore struct {
	mock.Mock
}

func (m *MockReferralStore) FindByReferee(ctx context.Context, refereeID uint64) (*model.Referral, error) {
	args := m.Called(ctx, refereeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Referral), args.Error(1)
}
func (m *MockReferralStore) MarkApplied(ctx context.Context, referrerID, refereeID uint64, discount int64) error {
	args := m.Called(ctx, referrerID, refereeID, discount)
	return args.Error(0)
}
func (m *MockReferralStore) MarkRewardCredited(ctx context.Context, refereeID uint64, reward int64) error {
	args := m.Called(ctx, refereeID, reward)
	return args.Error(0)
}

// MockMembershipStore
type MockMembershipStore struct {
	mock.Mock
}

func (m *MockMembershipStore) ActiveForUser(ctx context.Context, userID uint64, at time.Time) (*model.Membership, error) {
	args := m.Called(ctx, userID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Membership), args.Error(1)
}

// MockFraudStore
type MockFraudStore struct {
	mock.Mock
}

func (m *MockFraudStore) RecordSignal(ctx context.Context, s *model.FraudSignal) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockUserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, userID uint64) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *MockUserStore) FindByReferralCode(ctx context.Context, code string) (*model.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockConversationStore
type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) GetOrCreate(ctx context.Context, bookingID, userID, workerID uint64) (*model.Conversation, error) {
	args := m.Called(ctx, bookingID, userID, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conversation), args.Error(1)
}

// MockCommitter
type MockCommitter struct {
	mock.Mock
}

func (m *MockCommitter) Commit(ctx context.Context, set *repository.FinalizeSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

// MockMatcher
type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) Match(ctx context.Context, req MatchRequest) (*MatchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MatchResult), args.Error(1)
}

// MockWalletLedger
type MockWalletLedger struct {
	mock.Mock
}

func (m *MockWalletLedger) Credit(ctx context.Context, userID uint64, role string, amount int64, reason, reference string) error {
	args := m.Called(ctx, userID, role, amount, reason, reference)
	return args.Error(0)
}

// MockEvents
type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
func (m *MockEvents) PublishCRM(ctx context.Context, ev queue.CRMEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// MockRateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Decision, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Get(0).(ratelimit.Decision), args.Error(1)
}
