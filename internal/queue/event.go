// Package queue defines message payloads exchanged over the message
// broker.  The finalizer publishes these after the booking commit;
// the consumer worker performs the actual notification and CRM sends
// so transient delivery failures can never delay an admission
// response.
package queue

// Queue names.  Both queues are durable.
const (
	NotificationQueueName = "booking.notifications"
	CRMQueueName          = "booking.crm"
)

// BookingConfirmedEvent is published once per committed booking.  It
// carries enough for downstream consumers to log and notify without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID        uint64  `json:"booking_id"`
	UserID           uint64  `json:"user_id"`
	WorkerID         *uint64 `json:"worker_id,omitempty"`
	Status           string  `json:"status"`
	SlotTime         string  `json:"slot_time"`
	Total            int64   `json:"total"`
	Currency         string  `json:"currency"`
	AssignmentReason string  `json:"assignment_reason"`
	ConfirmedAt      string  `json:"confirmed_at"`
}

// CRMEvent is one templated message send.  Template names are owned
// by the CRM system; Data fills the template placeholders.
type CRMEvent struct {
	Template    string            `json:"template"`
	RecipientID uint64            `json:"recipient_id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Data        map[string]string `json:"data"`
}
