package medication

import (
	"time"

	"github.com/tubocare/medtrack/pkg/interfaces"
	"github.com/tubocare/medtrack/pkg/logger"
	"github.com/tubocare/medtrack/pkg/monitoring"
	"github.com/tubocare/medtrack/pkg/types"
)

// NextFireTime computes the next wall-clock instant matching the given
// weekday and time of day, offset subtracted, seconds zeroed. If the
// candidate is not strictly in the future it rolls forward one week at a
// time until it is.
//
// The offset is applied before rolling, so the lead reminder rolls
// independently of the at-time alarm: when the subtraction crosses
// midnight into the past the lead alarm lands on a different week
// boundary than the dose itself.
func NextFireTime(now time.Time, day types.Weekday, t types.TimeOfDay, offset time.Duration) time.Time {
	daysAhead := (int(day.TimeWeekday()) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day()+daysAhead, t.Hour, t.Minute, 0, 0, now.Location())
	candidate = candidate.Add(-offset)
	for !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// PlanAlarms computes the full set of reminder registrations for one
// medication: for every (day, index) with a configured dose time, one
// exact alarm at the dose time and one lead alarm ahead of it. Pure;
// registration happens in ReminderPlanner.
func PlanAlarms(med *types.Medication, now time.Time, lead time.Duration) []types.PlannedAlarm {
	var planned []types.PlannedAlarm
	for _, day := range types.Weekdays {
		entries, ok := med.WeeklySchedule[day]
		if !ok {
			continue
		}
		for i, entry := range entries {
			if entry.Time == nil {
				continue
			}
			payload := types.AlarmPayload{
				MedicationID:   med.ID,
				MedicationName: med.Name,
				UserID:         med.UserID,
				Day:            day,
				DoseIndex:      i,
				DoseTime:       *entry.Time,
			}

			atPayload := payload
			atPayload.Kind = types.AlarmAtTime
			planned = append(planned, types.PlannedAlarm{
				Key:     types.AlarmKey{MedicationID: med.ID, Day: day, DoseIndex: i, Kind: types.AlarmAtTime},
				FireAt:  NextFireTime(now, day, *entry.Time, 0),
				Payload: atPayload,
			})

			leadPayload := payload
			leadPayload.Kind = types.AlarmLead
			planned = append(planned, types.PlannedAlarm{
				Key:     types.AlarmKey{MedicationID: med.ID, Day: day, DoseIndex: i, Kind: types.AlarmLead},
				FireAt:  NextFireTime(now, day, *entry.Time, lead),
				Payload: leadPayload,
			})
		}
	}
	return planned
}

// AlarmKeysFor re-derives every alarm key a medication's schedule could
// have registered. Cancellation has no registry of its own: the key being
// a pure function of (medication, day, index, kind) is what lets it find
// prior registrations.
func AlarmKeysFor(med *types.Medication) []types.AlarmKey {
	var keys []types.AlarmKey
	for _, day := range types.Weekdays {
		entries, ok := med.WeeklySchedule[day]
		if !ok {
			continue
		}
		for i, entry := range entries {
			if entry.Time == nil {
				continue
			}
			keys = append(keys,
				types.AlarmKey{MedicationID: med.ID, Day: day, DoseIndex: i, Kind: types.AlarmAtTime},
				types.AlarmKey{MedicationID: med.ID, Day: day, DoseIndex: i, Kind: types.AlarmLead},
			)
		}
	}
	return keys
}

// ReminderPlanner registers and cancels dose reminder alarms for
// medications.
type ReminderPlanner struct {
	alarms interfaces.AlarmScheduler
	clock  interfaces.Clock
	logger *logger.Logger
	lead   time.Duration
}

// NewReminderPlanner creates a new reminder planner
func NewReminderPlanner(alarms interfaces.AlarmScheduler, clock interfaces.Clock, log *logger.Logger, lead time.Duration) *ReminderPlanner {
	return &ReminderPlanner{
		alarms: alarms,
		clock:  clock,
		logger: log,
		lead:   lead,
	}
}

// PlanMedication registers all reminder alarms for a medication. One
// triple failing to register is logged and skipped; the rest of the batch
// still goes through. There is no retry here: the next add or update of
// the medication replans everything.
func (p *ReminderPlanner) PlanMedication(med *types.Medication) int {
	now := p.clock.Now()
	scheduled := 0

	for _, alarm := range PlanAlarms(med, now, p.lead) {
		var err error
		switch alarm.Key.Kind {
		case types.AlarmLead:
			err = p.alarms.ScheduleClock(alarm.FireAt, alarm.Payload, alarm.Key)
		default:
			err = p.alarms.ScheduleExact(alarm.FireAt, alarm.Payload, alarm.Key)
		}
		if err != nil {
			p.logger.AlarmEvent("schedule", alarm.Key.String(), med.ID, false, map[string]interface{}{
				"error":   err.Error(),
				"fire_at": alarm.FireAt,
			})
			monitoring.RecordAlarmScheduled(string(alarm.Key.Kind), "error")
			continue
		}
		monitoring.RecordAlarmScheduled(string(alarm.Key.Kind), "success")
		scheduled++
	}

	p.logger.Infof("Planned %d reminder alarms for medication %s", scheduled, med.ID)
	return scheduled
}

// CancelMedication cancels every alarm the medication's schedule could
// have registered. Cancel failures are logged and do not stop the batch.
func (p *ReminderPlanner) CancelMedication(med *types.Medication) {
	cancelled := 0
	for _, key := range AlarmKeysFor(med) {
		if err := p.alarms.Cancel(key); err != nil {
			p.logger.AlarmEvent("cancel", key.String(), med.ID, false, map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		monitoring.RecordAlarmCancelled()
		cancelled++
	}

	p.logger.Infof("Cancelled %d reminder alarms for medication %s", cancelled, med.ID)
}
