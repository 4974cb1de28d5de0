package medication

import (
	"time"

	"github.com/tubocare/medtrack/pkg/types"
)

// dosesForDay flattens the (medication, entry) pairs scheduled on one day,
// preserving the input medication order and each day's entry order.
func dosesForDay(meds []*types.Medication, day types.Weekday) []types.ScheduledDose {
	var doses []types.ScheduledDose
	for _, med := range meds {
		entries, ok := med.WeeklySchedule[day]
		if !ok {
			continue
		}
		for i, entry := range entries {
			doses = append(doses, types.ScheduledDose{
				Medication: med,
				Day:        day,
				Index:      i,
				Entry:      entry,
			})
		}
	}
	return doses
}

// BuildDailyView groups medications into the home screen's four views:
// today's doses, tomorrow's doses, the next dose still ahead of the clock,
// and the remaining days in calendar order starting after tomorrow. The
// current time is injected by the caller; nothing here reads the wall
// clock.
func BuildDailyView(meds []*types.Medication, now time.Time) *types.DailyView {
	today := types.WeekdayOf(now.Weekday())
	tomorrow := today.Next()
	clock := types.TimeOfDay{Hour: now.Hour(), Minute: now.Minute()}

	view := &types.DailyView{
		Today:    dosesForDay(meds, today),
		Tomorrow: dosesForDay(meds, tomorrow),
	}

	view.NextDose = nextUpcomingDose(view.Today, clock)

	// Every day except today and tomorrow gets a bucket, empty or not, in
	// calendar order starting after tomorrow.
	for _, day := range LabelsStartingAfter(tomorrow) {
		if day == today || day == tomorrow {
			continue
		}
		view.OtherDays = append(view.OtherDays, types.DayGroup{
			Day:   day,
			Doses: dosesForDay(meds, day),
		})
	}

	return view
}

// nextUpcomingDose picks the dose with the earliest configured time
// strictly after the clock. Entries without a time are not considered.
// Ties on the same minute go to the earlier dose in input order.
func nextUpcomingDose(today []types.ScheduledDose, clock types.TimeOfDay) *types.ScheduledDose {
	var next *types.ScheduledDose
	for i := range today {
		t := today[i].Entry.Time
		if t == nil || !t.After(clock) {
			continue
		}
		if next == nil || t.MinuteOfDay() < next.Entry.Time.MinuteOfDay() {
			next = &today[i]
		}
	}
	if next == nil {
		return nil
	}
	dose := *next
	return &dose
}

// GroupByDay buckets every scheduled dose by day, all seven days in
// Monday-first order, with no filtering by time. The "all medications"
// view renders this directly.
func GroupByDay(meds []*types.Medication) []types.DayGroup {
	groups := make([]types.DayGroup, 0, 7)
	for _, day := range types.Weekdays {
		groups = append(groups, types.DayGroup{
			Day:   day,
			Doses: dosesForDay(meds, day),
		})
	}
	return groups
}
