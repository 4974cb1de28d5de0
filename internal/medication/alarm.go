package medication

import (
	"fmt"
	"sync"
	"time"

	"github.com/tubocare/medtrack/pkg/interfaces"
	"github.com/tubocare/medtrack/pkg/logger"
	"github.com/tubocare/medtrack/pkg/monitoring"
	"github.com/tubocare/medtrack/pkg/types"
)

// TimerAlarmScheduler is the in-process alarm registry. Registrations are
// keyed by the derived alarm key string; registering the same key again
// replaces the previous timer, which is how replanning avoids duplicate
// alarms. The registry is a process-wide resource, so all access goes
// through one mutex.
type TimerAlarmScheduler struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	notifier *DoseNotificationManager
	logger   *logger.Logger
}

// NewTimerAlarmScheduler creates a new timer-backed alarm scheduler
func NewTimerAlarmScheduler(notifier *DoseNotificationManager, log *logger.Logger) *TimerAlarmScheduler {
	return &TimerAlarmScheduler{
		timers:   make(map[string]*time.Timer),
		notifier: notifier,
		logger:   log,
	}
}

// ScheduleExact registers the at-time dose alarm.
func (s *TimerAlarmScheduler) ScheduleExact(fireAt time.Time, payload types.AlarmPayload, key types.AlarmKey) error {
	return s.schedule(fireAt, payload, key)
}

// ScheduleClock registers the lead reminder. The platform distinction
// between exact and clock-priority alarms collapses to the same timer
// here; the kind travels in the key and payload.
func (s *TimerAlarmScheduler) ScheduleClock(fireAt time.Time, payload types.AlarmPayload, key types.AlarmKey) error {
	return s.schedule(fireAt, payload, key)
}

func (s *TimerAlarmScheduler) schedule(fireAt time.Time, payload types.AlarmPayload, key types.AlarmKey) error {
	delay := time.Until(fireAt)
	if delay <= 0 {
		return types.NewAlarmError(fmt.Sprintf("alarm fire time is not in the future: %s", fireAt), nil)
	}

	id := key.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[id]; ok {
		existing.Stop()
	}
	s.timers[id] = time.AfterFunc(delay, func() {
		s.fire(id, payload)
	})

	s.logger.AlarmEvent("schedule", id, payload.MedicationID, true, map[string]interface{}{
		"fire_at": fireAt,
	})
	return nil
}

// Cancel removes a registration. Unknown keys are a no-op: cancellation
// re-derives keys from the schedule, so it routinely asks for keys that
// were never registered.
func (s *TimerAlarmScheduler) Cancel(key types.AlarmKey) error {
	id := key.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
		s.logger.AlarmEvent("cancel", id, key.MedicationID, true, nil)
	}
	return nil
}

// Registered returns the number of live registrations.
func (s *TimerAlarmScheduler) Registered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

var _ interfaces.AlarmScheduler = (*TimerAlarmScheduler)(nil)

func (s *TimerAlarmScheduler) fire(id string, payload types.AlarmPayload) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()

	monitoring.RecordAlarmFired(string(payload.Kind))

	if err := s.notifier.DeliverDoseReminder(payload); err != nil {
		s.logger.Errorf("Failed to deliver dose reminder for medication %s: %v", payload.MedicationID, err)
	}
}
