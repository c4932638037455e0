package model

import "time"

// Fraud signal severities, ordered from least to most serious.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Fraud signal reason codes emitted by the admission pipeline.
const (
	ReasonVelocityLimit    = "velocity_limit_exceeded"
	ReasonHighVelocity30m  = "high_booking_velocity_30m"
	ReasonRepeatedSameSlot = "repeated_same_slot_pattern"
	ReasonHighValue        = "high_value_booking"
)

// FraudSignal is an append-only record of a suspicious pattern.  It is
// written by the abuse guard and the fraud heuristics and never
// mutated afterwards by this service; review tooling owns the status
// transitions beyond "open".
type FraudSignal struct {
	ID         uint64    // fraud_signals.id
	UserID     uint64    // fraud_signals.user_id
	SignalType string    // fraud_signals.signal_type (e.g. booking_velocity, rate_limit)
	Severity   string    // fraud_signals.severity
	Reasons    []string  // fraud_signals.reasons (JSON column)
	Metadata   string    // fraud_signals.metadata (free-form JSON)
	Status     string    // fraud_signals.status (open on creation)
	CreatedAt  time.Time // fraud_signals.created_at
}
