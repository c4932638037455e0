package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/sevahub/home-services/internal/model"
)

// ConversationRepo anchors chat channels to bookings.  The chat
// transport itself is external; this repository only guarantees one
// stable (booking, user, worker) channel key per booking.
type ConversationRepo struct {
	db *sql.DB
}

// NewConversationRepo returns a new ConversationRepo bound to the given database.
func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{db: db} }

// GetOrCreate returns the booking's conversation, creating it with a
// fresh channel key when none exists yet.  A concurrent create is
// resolved by re-reading the winner's row.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, bookingID, userID, workerID uint64) (*model.Conversation, error) {
	existing, err := r.getByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	const ins = `INSERT INTO conversations (booking_id, user_id, worker_id, channel_key) VALUES (?, ?, ?, ?)`
	key := uuid.NewString()
	res, err := r.db.ExecContext(ctx, ins, bookingID, userID, workerID, key)
	if err != nil {
		if isDuplicateEntry(err) {
			return r.getByBooking(ctx, bookingID)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Conversation{
		ID:         uint64(id),
		BookingID:  bookingID,
		UserID:     userID,
		WorkerID:   workerID,
		ChannelKey: key,
	}, nil
}

func (r *ConversationRepo) getByBooking(ctx context.Context, bookingID uint64) (*model.Conversation, error) {
	const q = `SELECT id, booking_id, user_id, worker_id, channel_key, created_at
		FROM conversations WHERE booking_id = ? LIMIT 1`
	var c model.Conversation
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
		&c.ID, &c.BookingID, &c.UserID, &c.WorkerID, &c.ChannelKey, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
