package model

import "time"

// Roles accepted on the admission endpoint.  Authentication itself is
// handled by an external identity service; this module only consumes
// the id and role claims it issues.
const (
	RoleUser   = "user"
	RoleWorker = "worker"
	RoleAdmin  = "admin"
)

// User is the slice of the `users` table this module reads: identity
// for audit lines, the user's own referral code, and the recorded
// referrer when the user signed up through a referral link.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name, used in notification templates.
//  Email        – contact address for CRM sends.
//  Role         – user, worker or admin.
//  ReferralCode – this user's shareable code (unique).
//  ReferredBy   – id of the user whose code was used at signup, if any.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	Role         string    // users.role
	ReferralCode string    // users.referral_code
	ReferredBy   *uint64   // users.referred_by (nullable)
	CreatedAt    time.Time // users.created_at
}
