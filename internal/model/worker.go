package model

import "time"

// Worker is a service provider profile as stored in the `workers`
// table.  Eligibility for assignment requires Status approved, the
// platform fee paid and the worker currently online.  Schedule fields
// feed the availability checker: WorkStartMin/WorkEndMin are minutes
// from midnight in the worker's local day, WorksWeekends controls
// Saturday/Sunday.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – owning user account.
//  Name         – display name.
//  Status       – approval state (pending, approved, suspended).
//  FeePaid      – whether the platform fee is settled.
//  IsOnline     – live online toggle set by the worker app.
//  BasePrice    – base price used in worker-priced mode.
//  TaxPercent   – tax percent used in worker-priced mode.
//  Rating       – average rating, informational only here.
//  WorkStartMin – daily shift start, minutes from midnight.
//  WorkEndMin   – daily shift end, minutes from midnight.
//  WorksWeekends– accepts Saturday/Sunday slots.
type Worker struct {
	ID            uint64    // workers.id
	UserID        uint64    // workers.user_id
	Name          string    // workers.name
	Status        string    // workers.status
	FeePaid       bool      // workers.fee_paid
	IsOnline      bool      // workers.is_online
	BasePrice     int64     // workers.base_price
	TaxPercent    float64   // workers.tax_percent
	Rating        float64   // workers.rating
	WorkStartMin  int       // workers.work_start_min
	WorkEndMin    int       // workers.work_end_min
	WorksWeekends bool      // workers.works_weekends
	CreatedAt     time.Time // workers.created_at
}

// WorkerStatusApproved is the only worker status eligible for
// assignment.
const WorkerStatusApproved = "approved"

// Eligible reports whether the worker can be assigned bookings at all:
// approved, fee settled and currently online.
func (w *Worker) Eligible() bool {
	return w.Status == WorkerStatusApproved && w.FeePaid && w.IsOnline
}

// WorkerExtraService is one priced line item offered by a worker in
// worker-priced mode, selected by name in the booking request.
type WorkerExtraService struct {
	ID       uint64 // worker_extra_services.id
	WorkerID uint64 // worker_extra_services.worker_id
	Name     string // worker_extra_services.name
	Price    int64  // worker_extra_services.price
}
