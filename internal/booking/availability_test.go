package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sevahub/home-services/internal/model"
)

func TestScheduleChecker(t *testing.T) {
	c := NewScheduleChecker()
	shift := &model.Worker{WorkStartMin: 9 * 60, WorkEndMin: 17 * 60, WorksWeekends: false}

	t.Run("InsideShift", func(t *testing.T) {
		slot := fixedNow.Add(3 * time.Hour) // Monday 13:00
		assert.True(t, c.Available(shift, slot, fixedNow))
	})

	t.Run("BeforeShift", func(t *testing.T) {
		slot := time.Date(2025, 6, 3, 7, 0, 0, 0, time.UTC)
		assert.False(t, c.Available(shift, slot, fixedNow))
	})

	t.Run("AtShiftEnd", func(t *testing.T) {
		slot := time.Date(2025, 6, 3, 17, 0, 0, 0, time.UTC)
		assert.False(t, c.Available(shift, slot, fixedNow))
	})

	t.Run("WeekendOff", func(t *testing.T) {
		slot := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC) // Saturday
		assert.False(t, c.Available(shift, slot, fixedNow))
	})

	t.Run("WeekendOn", func(t *testing.T) {
		w := &model.Worker{WorkStartMin: 9 * 60, WorkEndMin: 17 * 60, WorksWeekends: true}
		slot := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)
		assert.True(t, c.Available(w, slot, fixedNow))
	})

	t.Run("NoShiftMeansAlwaysOn", func(t *testing.T) {
		w := &model.Worker{WorksWeekends: true}
		slot := time.Date(2025, 6, 4, 3, 0, 0, 0, time.UTC)
		assert.True(t, c.Available(w, slot, fixedNow))
	})

	t.Run("PastSlotNeverAvailable", func(t *testing.T) {
		slot := fixedNow.Add(-time.Hour)
		assert.False(t, c.Available(shift, slot, fixedNow))
	})
}
