package booking

import (
	"context"
	"time"

	"github.com/sevahub/home-services/internal/model"
	"github.com/sevahub/home-services/internal/ratelimit"
	"github.com/sevahub/home-services/internal/repository"
)

// The orchestrator talks to persistence through narrow interfaces so
// the pipeline stages stay unit-testable without a database.  The
// repository package provides the production implementations.

// BookingStore covers the booking reads the pipeline needs plus the
// post-commit conversation link.
type BookingStore interface {
	FindByIdempotencyKey(ctx context.Context, userID uint64, key string) (*model.Booking, error)
	FindActiveAtSlot(ctx context.Context, userID uint64, slot time.Time) (uint64, error)
	FindRecentDuplicate(ctx context.Context, userID uint64, serviceID, workerID *uint64, slot time.Time, since time.Time) (uint64, error)
	WorkerHasConflictAt(ctx context.Context, workerID uint64, slot time.Time) (bool, error)
	CountCreatedSince(ctx context.Context, userID uint64, since time.Time) (int, error)
	HasBookingNearSlot(ctx context.Context, userID uint64, slot time.Time, within time.Duration) (bool, error)
	HasReferralDiscount(ctx context.Context, userID uint64) (bool, error)
	SetConversation(ctx context.Context, bookingID, conversationID uint64) error
}

// CatalogStore reads the service catalog.
type CatalogStore interface {
	GetByID(ctx context.Context, serviceID uint64) (*model.Service, error)
	AddonsByNames(ctx context.Context, serviceID uint64, names []string) ([]model.ServiceAddon, error)
}

// WorkerStore reads worker profiles and coverage.
type WorkerStore interface {
	GetByID(ctx context.Context, workerID uint64) (*model.Worker, error)
	ServesArea(ctx context.Context, workerID uint64, pincode, city string) (bool, error)
	SupportsCategory(ctx context.Context, workerID, categoryID uint64) (bool, error)
	ExtrasByNames(ctx context.Context, workerID uint64, names []string) ([]model.WorkerExtraService, error)
}

// PromoStore reads promo codes and their per-user usage.
type PromoStore interface {
	FindByCode(ctx context.Context, code string) (*model.PromoCode, error)
	CountUserUsage(ctx context.Context, userID uint64, code string) (int, error)
}

// ReferralStore persists referral state transitions.
type ReferralStore interface {
	FindByReferee(ctx context.Context, refereeID uint64) (*model.Referral, error)
	MarkApplied(ctx context.Context, referrerID, refereeID uint64, discount int64) error
	MarkRewardCredited(ctx context.Context, refereeID uint64, reward int64) error
}

// MembershipStore reads membership snapshots.
type MembershipStore interface {
	ActiveForUser(ctx context.Context, userID uint64, at time.Time) (*model.Membership, error)
}

// FraudStore appends fraud signals.
type FraudStore interface {
	RecordSignal(ctx context.Context, s *model.FraudSignal) error
}

// UserStore reads user identity and referral linkage.
type UserStore interface {
	GetByID(ctx context.Context, userID uint64) (*model.User, error)
	FindByReferralCode(ctx context.Context, code string) (*model.User, error)
}

// ConversationStore creates or reuses the booking's chat anchor.
type ConversationStore interface {
	GetOrCreate(ctx context.Context, bookingID, userID, workerID uint64) (*model.Conversation, error)
}

// Committer commits the assembled booking atomically.
type Committer interface {
	Commit(ctx context.Context, set *repository.FinalizeSet) error
}

// RateLimiter is the sliding-window counter backing the abuse guard.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Decision, error)
}
