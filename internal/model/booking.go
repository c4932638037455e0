package model

import "time"

// Booking statuses.  A booking is created as CONFIRMED (or directly
// ASSIGNED when a worker was resolved during admission) and advances
// through the worker lifecycle until it reaches a terminal state.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusAssigned  = "assigned"
	BookingStatusOnWay     = "onway"
	BookingStatusWorking   = "working"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Assignment modes recorded on a booking.
const (
	AssignmentAuto   = "auto"
	AssignmentManual = "manual"
)

// ActiveBookingStatuses are the statuses that occupy a slot for
// conflict detection.  Pending, completed and cancelled bookings do
// not block other bookings.
var ActiveBookingStatuses = []string{
	BookingStatusConfirmed,
	BookingStatusAssigned,
	BookingStatusOnWay,
	BookingStatusWorking,
}

// Address is the structured, normalized service address stored with a
// booking.  Pincode and City are what area matching operates on.
type Address struct {
	Line    string `json:"line"`    // bookings.address_line
	City    string `json:"city"`    // bookings.address_city
	Pincode string `json:"pincode"` // bookings.address_pincode
}

// PriceBreakdown captures every component of the final price.  All
// amounts are whole currency units.  The invariant is
// Total = Base + VisitFee + Addons + Tax - Discount.
type PriceBreakdown struct {
	Base     int64  `json:"base"`
	VisitFee int64  `json:"visitFee"`
	Addons   int64  `json:"addons"`
	Tax      int64  `json:"tax"`
	Discount int64  `json:"discount"`
	Total    int64  `json:"total"`
	Currency string `json:"currency"`
}

// Booking is the central record produced by the admission pipeline.
// All three discount fields are persisted even when zero so the audit
// trail shows which candidates were considered.  RequestedWorkerID is
// preserved even when the assignment fell through to an alternate.
type Booking struct {
	ID                 uint64         `json:"id"`                 // bookings.id
	UserID             uint64         `json:"userId"`             // bookings.user_id
	WorkerID           *uint64        `json:"workerId"`           // bookings.worker_id (nullable)
	ServiceID          *uint64        `json:"serviceId"`          // bookings.service_id (nullable in worker-priced mode)
	CategoryID         uint64         `json:"categoryId"`         // bookings.category_id
	Address            Address        `json:"address"`            // bookings.address_*
	SlotTime           time.Time      `json:"slotTime"`           // bookings.slot_time (UTC)
	Notes              string         `json:"notes"`              // bookings.notes
	Addons             []string       `json:"addons"`             // bookings.addons (JSON column)
	Status             string         `json:"status"`             // bookings.status
	AssignmentMode     string         `json:"assignmentMode"`     // bookings.assignment_mode
	AssignmentReason   string         `json:"assignmentReason"`   // bookings.assignment_reason
	StrictWorker       bool           `json:"strictWorker"`       // bookings.strict_worker
	RequestedWorkerID  *uint64        `json:"requestedWorkerId"`  // bookings.requested_worker_id (nullable)
	Price              PriceBreakdown `json:"price"`              // bookings.base_amount .. total_amount
	PaymentMethod      string         `json:"paymentMethod"`      // bookings.payment_method (wallet|online|cash)
	PaymentStatus      string         `json:"paymentStatus"`      // bookings.payment_status (pending|paid)
	IdempotencyKey     *string        `json:"-"`                  // bookings.idempotency_key (unique per user)
	PromoCode          string         `json:"promoCode"`          // bookings.promo_code
	PromoDiscount      int64          `json:"promoDiscount"`      // bookings.promo_discount
	ReferralCode       string         `json:"referralCode"`       // bookings.referral_code
	ReferralDiscount   int64          `json:"referralDiscount"`   // bookings.referral_discount
	MembershipPlan     string         `json:"membershipPlan"`     // bookings.membership_plan
	MembershipDiscount int64          `json:"membershipDiscount"` // bookings.membership_discount
	ConversationID     *uint64        `json:"conversationId"`     // bookings.conversation_id (nullable)
	CreatedAt          time.Time      `json:"createdAt"`          // bookings.created_at
	UpdatedAt          time.Time      `json:"updatedAt"`          // bookings.updated_at
}

// BookingStatusLog is one ordered entry in a booking's audit trail.
// Entries are append-only; the first entry is always written by the
// admission pipeline itself.
type BookingStatusLog struct {
	ID        uint64    `json:"id"`        // booking_status_log.id
	BookingID uint64    `json:"bookingId"` // booking_status_log.booking_id
	Status    string    `json:"status"`    // booking_status_log.status
	Actor     string    `json:"actor"`     // booking_status_log.actor (system|user|worker|admin)
	Note      string    `json:"note"`      // booking_status_log.note
	CreatedAt time.Time `json:"createdAt"` // booking_status_log.created_at
}
