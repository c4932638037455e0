package config

import "time"

// BookingConfig carries every tunable of the admission pipeline.  It
// is loaded once at startup and passed to the orchestrator, so the
// pipeline itself never consults the environment.
type BookingConfig struct {
	LeadTime        time.Duration // minimum gap between now and the slot (default 15m)
	ClockSkewGrace  time.Duration // tolerance for "slot in the past" checks (default 2m)
	Open247         bool          // disables the lead-time rule entirely
	DuplicateWindow time.Duration // window for the duplicate-submission heuristic (default 5m)

	ReferralDiscount int64 // fixed discount on the referee's first qualifying booking
	ReferralReward   int64 // fixed wallet credit for the referrer

	FraudWindow             time.Duration // lookback for velocity heuristics (default 30m)
	VelocityFlagThreshold   int           // bookings in window that raise a flag (default 5)
	VelocityRejectThreshold int           // bookings in window that reject outright (default 8)
	SameSlotWindow          time.Duration // "near the same slot" tolerance (default 5m)
	HighValueThreshold      int64         // price at which a high-value flag is raised

	NearestSlotStep    time.Duration // forward-scan step for remediation slots (default 30m)
	NearestSlotHorizon time.Duration // forward-scan horizon (default 14 days)
	NearestSlotCount   int           // number of remediation slots to collect (default 5)

	IdempotencyKeyMax int    // max accepted idempotency key length (default 100)
	Currency          string // currency code recorded on price breakdowns
}

// LoadBookingConfig reads environment variables to build a
// BookingConfig.  Every value has a documented default so a bare
// environment yields a working pipeline.
func LoadBookingConfig() BookingConfig {
	return BookingConfig{
		LeadTime:        envDur("BOOKING_LEAD_TIME", 15*time.Minute),
		ClockSkewGrace:  envDur("BOOKING_CLOCK_SKEW_GRACE", 2*time.Minute),
		Open247:         envBool("BOOKING_OPEN_24X7", false),
		DuplicateWindow: envDur("BOOKING_DUPLICATE_WINDOW", 5*time.Minute),

		ReferralDiscount: int64(envInt("REFERRAL_DISCOUNT", 100)),
		ReferralReward:   int64(envInt("REFERRAL_REWARD", 50)),

		FraudWindow:             envDur("FRAUD_WINDOW", 30*time.Minute),
		VelocityFlagThreshold:   envInt("FRAUD_VELOCITY_FLAG", 5),
		VelocityRejectThreshold: envInt("FRAUD_VELOCITY_REJECT", 8),
		SameSlotWindow:          envDur("FRAUD_SAME_SLOT_WINDOW", 5*time.Minute),
		HighValueThreshold:      int64(envInt("FRAUD_HIGH_VALUE_THRESHOLD", 5000)),

		NearestSlotStep:    envDur("NEAREST_SLOT_STEP", 30*time.Minute),
		NearestSlotHorizon: envDur("NEAREST_SLOT_HORIZON", 14*24*time.Hour),
		NearestSlotCount:   envInt("NEAREST_SLOT_COUNT", 5),

		IdempotencyKeyMax: envInt("IDEMPOTENCY_KEY_MAX", 100),
		Currency:          envStr("BOOKING_CURRENCY", "INR"),
	}
}
