// Package booking implements the admission pipeline that turns a raw
// booking request into a committed booking: abuse guarding,
// idempotency, validation, conflict checks, pricing with exclusive
// discounts, fraud heuristics, worker assignment and the atomic
// finalize commit with its post-commit side effects.
package booking

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/sevahub/home-services/internal/config"
	"github.com/sevahub/home-services/internal/model"
)

// Deps bundles the orchestrator's collaborators for wiring.
type Deps struct {
	Bookings     BookingStore
	Catalog      CatalogStore
	Workers      WorkerStore
	Promos       PromoStore
	Referrals    ReferralStore
	Memberships  MembershipStore
	Fraud        FraudStore
	Users        UserStore
	Convos       ConversationStore
	Committer    Committer
	Matcher      Matcher
	Availability AvailabilityChecker
	Wallet       WalletLedger
	Events       Events
	Limiter      RateLimiter
}

// Orchestrator runs the admission pipeline.  It is stateless between
// requests; all state lives in the stores.
type Orchestrator struct {
	cfg   config.BookingConfig
	rlCfg config.RateLimitConfig

	bookings     BookingStore
	catalog      CatalogStore
	workers      WorkerStore
	promos       PromoStore
	referrals    ReferralStore
	memberships  MembershipStore
	fraud        FraudStore
	users        UserStore
	convos       ConversationStore
	committer    Committer
	matcher      Matcher
	availability AvailabilityChecker
	wallet       WalletLedger
	events       Events
	limiter      RateLimiter

	clock func() time.Time
}

// NewOrchestrator builds the pipeline.  A nil Availability falls back
// to the schedule checker; a nil Limiter disables the user-scoped
// abuse guard.
func NewOrchestrator(cfg config.BookingConfig, rlCfg config.RateLimitConfig, d Deps) *Orchestrator {
	if d.Availability == nil {
		d.Availability = NewScheduleChecker()
	}
	return &Orchestrator{
		cfg:          cfg,
		rlCfg:        rlCfg,
		bookings:     d.Bookings,
		catalog:      d.Catalog,
		workers:      d.Workers,
		promos:       d.Promos,
		referrals:    d.Referrals,
		memberships:  d.Memberships,
		fraud:        d.Fraud,
		users:        d.Users,
		convos:       d.Convos,
		committer:    d.Committer,
		matcher:      d.Matcher,
		availability: d.Availability,
		wallet:       d.Wallet,
		events:       d.Events,
		limiter:      d.Limiter,
		clock:        time.Now,
	}
}

// AdmitResult is the successful outcome: the committed booking and
// whether it was replayed from an earlier request with the same
// idempotency key.
type AdmitResult struct {
	Booking    *model.Booking
	Idempotent bool
}

// Admit runs the full pipeline for one request.  The stages run in a
// fixed order; each either advances the admission or produces the
// structured rejection for the handler to emit.  Rejections before
// finalize leave no trace beyond fraud signals.
func (o *Orchestrator) Admit(ctx context.Context, userID uint64, role string, req *AdmitRequest) (*AdmitResult, *AdmitError) {
	now := o.clock().UTC()

	if aerr := o.guardUser(ctx, userID); aerr != nil {
		return nil, aerr
	}

	key := o.cleanIdempotencyKey(req.IdempotencyKey)
	if existing, err := o.resolveIdempotent(ctx, userID, key); err != nil {
		return nil, o.internalErr(err)
	} else if existing != nil {
		return &AdmitResult{Booking: existing, Idempotent: true}, nil
	}

	a, aerr := o.validate(userID, role, req, now)
	if aerr != nil {
		return nil, aerr
	}
	if aerr := o.checkConflicts(ctx, a, now); aerr != nil {
		return nil, aerr
	}

	p, aerr := o.price(ctx, a, now)
	if aerr != nil {
		return nil, aerr
	}
	if aerr := o.evaluateFraud(ctx, a, p.breakdown.Total, now); aerr != nil {
		return nil, aerr
	}

	out, aerr := o.assign(ctx, a, p, now)
	if aerr != nil {
		return nil, aerr
	}

	b, replayed, aerr := o.finalize(ctx, a, p, out, key, now)
	if aerr != nil {
		return nil, aerr
	}
	return &AdmitResult{Booking: b, Idempotent: replayed}, nil
}

// internalErr logs the underlying failure and returns the opaque 500.
func (o *Orchestrator) internalErr(err error) *AdmitError {
	log.Printf("booking: internal error: %v", err)
	return &AdmitError{Status: 500, Code: "INTERNAL", Message: "something went wrong, try again"}
}

func formatUint(v uint64) string { return strconv.FormatUint(v, 10) }
