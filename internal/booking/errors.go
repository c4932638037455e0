package booking

import "time"

// Machine-readable rejection codes returned to API clients.
const (
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeRateLimited             = "RATE_LIMITED"
	CodeSafetyHold              = "SAFETY_HOLD"
	CodeSlotConflict            = "SLOT_CONFLICT"
	CodeDuplicateBooking        = "DUPLICATE_BOOKING"
	CodeStrictWorkerUnavailable = "STRICT_WORKER_UNAVAILABLE"
	CodeManualWorkerUnavailable = "MANUAL_WORKER_UNAVAILABLE"
)

// EligibilityChecks mirrors the fixed order in which a manually
// requested worker is vetted.  The first false field explains the
// rejection; later fields are left at their defaults once a check
// fails, except Exists/Eligible which are always populated.
type EligibilityChecks struct {
	Exists           bool `json:"exists"`
	Eligible         bool `json:"eligible"`
	ServesArea       bool `json:"servesArea"`
	SupportsCategory bool `json:"supportsCategory"`
	Available        bool `json:"available"`
	FreeAtSlot       bool `json:"freeAtSlot"`
}

// RemediationOptions tells the client which self-service paths are
// open after a worker-unavailable rejection.
type RemediationOptions struct {
	OfferNearestSlot     bool `json:"offerNearestSlot"`
	RequestCallback      bool `json:"requestCallback"`
	AllowAlternateWorker bool `json:"allowAlternateWorker"`
	Cancel               bool `json:"cancel"`
}

// AdmitError is the structured rejection produced anywhere in the
// admission pipeline.  Status is the HTTP status the handler should
// emit; the remaining fields populate the machine-readable body.
// Rejections carry no side effects beyond already recorded fraud
// signals.
type AdmitError struct {
	Status            int                 `json:"-"`
	Code              string              `json:"code"`
	Message           string              `json:"message"`
	RetryAfterSeconds int                 `json:"retryAfterSeconds,omitempty"`
	ConflictBookingID uint64              `json:"conflictBookingId,omitempty"`
	StrictWorker      *bool               `json:"strictWorker,omitempty"`
	Checks            *EligibilityChecks  `json:"checks,omitempty"`
	NearestSlots      []time.Time         `json:"nearestSlots,omitempty"`
	Options           *RemediationOptions `json:"options,omitempty"`
}

// Error implements the error interface.
func (e *AdmitError) Error() string { return e.Code + ": " + e.Message }

func errInvalid(msg string) *AdmitError {
	return &AdmitError{Status: 400, Code: CodeInvalidRequest, Message: msg}
}

func errBusinessRule(msg string) *AdmitError {
	// Business-rule rejections share the 400 class but keep a
	// human-readable message as the primary payload.
	return &AdmitError{Status: 400, Code: CodeInvalidRequest, Message: msg}
}

func errTooMany(code, msg string, retryAfter time.Duration) *AdmitError {
	secs := int(retryAfter / time.Second)
	if secs < 1 {
		secs = 1
	}
	return &AdmitError{Status: 429, Code: code, Message: msg, RetryAfterSeconds: secs}
}

func errConflict(code, msg string, existingID uint64) *AdmitError {
	return &AdmitError{Status: 409, Code: code, Message: msg, ConflictBookingID: existingID}
}
