package model

import "time"

// Membership is a snapshot of a requester's active plan at booking
// time.  The admission pipeline reads it to compute the membership
// discount candidate and records usage when that discount survives
// exclusivity resolution.  Plan administration lives elsewhere.
type Membership struct {
	ID            uint64    // memberships.id
	UserID        uint64    // memberships.user_id
	Plan          string    // memberships.plan (e.g. gold, plus)
	DiscountType  string    // memberships.discount_type (percent|flat)
	DiscountValue int64     // memberships.discount_value
	MaxDiscount   int64     // memberships.max_discount (cap for percent type, 0 = none)
	IsActive      bool      // memberships.is_active
	StartsAt      time.Time // memberships.starts_at
	ExpiresAt     time.Time // memberships.expires_at
}
