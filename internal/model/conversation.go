package model

import "time"

// Conversation links a booking's requester and assigned worker to a
// chat channel.  The channel transport is external; this record only
// anchors the (booking, user, worker) triple to a stable key.  One
// conversation exists per booking.
type Conversation struct {
	ID         uint64    // conversations.id
	BookingID  uint64    // conversations.booking_id (unique)
	UserID     uint64    // conversations.user_id
	WorkerID   uint64    // conversations.worker_id
	ChannelKey string    // conversations.channel_key (uuid)
	CreatedAt  time.Time // conversations.created_at
}

// Payment is a record of money collected for a booking.  Online
// payments are created in paid state with a generated reference
// (demo-mode semantics); wallet payments are settled by a ledger
// debit instead and carry the debit reference.
type Payment struct {
	ID        uint64    // payments.id
	BookingID uint64    // payments.booking_id
	UserID    uint64    // payments.user_id
	Amount    int64     // payments.amount
	Method    string    // payments.method (wallet|online|cash)
	Status    string    // payments.status (pending|paid)
	Reference string    // payments.reference
	CreatedAt time.Time // payments.created_at
}
