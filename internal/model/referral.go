package model

import "time"

// Referral statuses.  A referral advances from signed_up when the
// referee registers, to discount_applied on their first qualifying
// booking, to reward_credited once the referrer's wallet was credited.
const (
	ReferralSignedUp        = "signed_up"
	ReferralDiscountApplied = "discount_applied"
	ReferralRewardCredited  = "reward_credited"
	ReferralCancelled       = "cancelled"
)

// Referral links a referrer to a referee and accumulates the discount
// granted to the referee and the reward credited to the referrer.  At
// most one referral row exists per referee.
type Referral struct {
	ID             uint64    // referrals.id
	ReferrerID     uint64    // referrals.referrer_id
	RefereeID      uint64    // referrals.referee_id (unique)
	Status         string    // referrals.status
	DiscountAmount int64     // referrals.discount_amount
	RewardAmount   int64     // referrals.reward_amount
	CreatedAt      time.Time // referrals.created_at
	UpdatedAt      time.Time // referrals.updated_at
}
