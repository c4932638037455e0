package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/sevahub/home-services/internal/model"
)

// FraudRepo appends fraud signals.  Signals are write-once from this
// service's point of view; review tooling owns later transitions.
type FraudRepo struct {
	db *sql.DB
}

// NewFraudRepo returns a new FraudRepo bound to the given database.
func NewFraudRepo(db *sql.DB) *FraudRepo { return &FraudRepo{db: db} }

// RecordSignal inserts a fraud signal with status "open".  The
// generated id is populated on the record.
func (r *FraudRepo) RecordSignal(ctx context.Context, s *model.FraudSignal) error {
	reasons, err := json.Marshal(s.Reasons)
	if err != nil {
		return err
	}
	if s.Status == "" {
		s.Status = "open"
	}
	const q = `INSERT INTO fraud_signals (user_id, signal_type, severity, reasons, metadata, status)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.UserID, s.SignalType, s.Severity, string(reasons), s.Metadata, s.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}
