package booking

import (
	"time"

	"github.com/sevahub/home-services/internal/model"
)

// ScheduleChecker is the default AvailabilityChecker.  It evaluates a
// worker's daily shift window and weekend policy against the slot.
// All times are UTC; workers record their shift in UTC minutes.
type ScheduleChecker struct{}

// NewScheduleChecker returns the schedule-based availability checker.
func NewScheduleChecker() *ScheduleChecker { return &ScheduleChecker{} }

// Available reports whether the worker's schedule admits the slot.
// Past slots are never available.
func (c *ScheduleChecker) Available(w *model.Worker, slot, now time.Time) bool {
	if slot.Before(now) {
		return false
	}
	if !w.WorksWeekends {
		switch slot.Weekday() {
		case time.Saturday, time.Sunday:
			return false
		}
	}
	if w.WorkStartMin == 0 && w.WorkEndMin == 0 {
		// No shift recorded means always on duty.
		return true
	}
	minute := slot.Hour()*60 + slot.Minute()
	return minute >= w.WorkStartMin && minute < w.WorkEndMin
}
