package medication

import (
	"time"

	"github.com/tubocare/medtrack/pkg/types"
)

// ToggleDose returns a copy of med with the entry matching doseTime on the
// given day set to checked. TakenAt is stamped with now when checking and
// cleared when unchecking, so it is non-nil exactly when the dose is
// marked taken.
//
// A day absent from the schedule, or a dose time with no matching entry,
// leaves the medication untouched; the second result reports whether
// anything changed. Schedules are built from the same day vocabulary the
// callers use, so a miss is a caller error and not worth failing over.
func ToggleDose(med *types.Medication, day types.Weekday, doseTime types.TimeOfDay, checked bool, now time.Time) (*types.Medication, bool) {
	entries, ok := med.WeeklySchedule[day]
	if !ok {
		return med, false
	}

	target := -1
	for i, entry := range entries {
		if entry.Time != nil && entry.Time.Equal(doseTime) {
			target = i
			break
		}
	}
	if target == -1 {
		return med, false
	}

	updated := *med
	updated.WeeklySchedule = med.WeeklySchedule.Clone()

	entry := updated.WeeklySchedule[day][target]
	entry.Checked = checked
	if checked {
		takenAt := now
		entry.TakenAt = &takenAt
	} else {
		entry.TakenAt = nil
	}
	updated.WeeklySchedule[day][target] = entry

	return &updated, true
}
