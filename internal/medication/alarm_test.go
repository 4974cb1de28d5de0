package medication

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tubocare/medtrack/pkg/logger"
	"github.com/tubocare/medtrack/pkg/types"
)

// MockNotificationService is a mock implementation of the notification service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendPushNotification(userID, title, message string) error {
	args := m.Called(userID, title, message)
	return args.Error(0)
}

func (m *MockNotificationService) SendSMS(to, message string) error {
	args := m.Called(to, message)
	return args.Error(0)
}

func newTestScheduler() *TimerAlarmScheduler {
	log := logger.New("debug")
	return NewTimerAlarmScheduler(NewDoseNotificationManager(NewNotificationService(log), log), log)
}

func alarmKey(medID string, day types.Weekday, index int, kind types.AlarmKind) types.AlarmKey {
	return types.AlarmKey{MedicationID: medID, Day: day, DoseIndex: index, Kind: kind}
}

func TestTimerAlarmScheduler_ScheduleAndCancel(t *testing.T) {
	scheduler := newTestScheduler()
	key := alarmKey("med-1", types.Wednesday, 0, types.AlarmAtTime)

	err := scheduler.ScheduleExact(time.Now().Add(time.Hour), types.AlarmPayload{MedicationID: "med-1"}, key)

	require.NoError(t, err)
	assert.Equal(t, 1, scheduler.Registered())

	require.NoError(t, scheduler.Cancel(key))
	assert.Equal(t, 0, scheduler.Registered())
}

func TestTimerAlarmScheduler_ReschedulingReplacesExistingKey(t *testing.T) {
	scheduler := newTestScheduler()
	key := alarmKey("med-1", types.Wednesday, 0, types.AlarmAtTime)
	payload := types.AlarmPayload{MedicationID: "med-1"}

	require.NoError(t, scheduler.ScheduleExact(time.Now().Add(time.Hour), payload, key))
	require.NoError(t, scheduler.ScheduleExact(time.Now().Add(2*time.Hour), payload, key))

	assert.Equal(t, 1, scheduler.Registered(), "same key replaces, never duplicates")
}

func TestTimerAlarmScheduler_KindsAreDistinctRegistrations(t *testing.T) {
	scheduler := newTestScheduler()
	payload := types.AlarmPayload{MedicationID: "med-1"}

	require.NoError(t, scheduler.ScheduleExact(time.Now().Add(time.Hour), payload,
		alarmKey("med-1", types.Wednesday, 0, types.AlarmAtTime)))
	require.NoError(t, scheduler.ScheduleClock(time.Now().Add(55*time.Minute), payload,
		alarmKey("med-1", types.Wednesday, 0, types.AlarmLead)))

	assert.Equal(t, 2, scheduler.Registered())
}

func TestTimerAlarmScheduler_PastFireTimeIsRejected(t *testing.T) {
	scheduler := newTestScheduler()

	err := scheduler.ScheduleExact(time.Now().Add(-time.Minute), types.AlarmPayload{},
		alarmKey("med-1", types.Monday, 0, types.AlarmAtTime))

	require.Error(t, err)
	assert.Equal(t, 0, scheduler.Registered())
}

func TestTimerAlarmScheduler_CancelUnknownKeyIsNoOp(t *testing.T) {
	scheduler := newTestScheduler()

	err := scheduler.Cancel(alarmKey("never-registered", types.Sunday, 5, types.AlarmLead))

	assert.NoError(t, err)
}

func TestDeliverDoseReminder_LeadMessage(t *testing.T) {
	notifications := &MockNotificationService{}
	manager := NewDoseNotificationManager(notifications, logger.New("debug"))

	notifications.On("SendPushNotification", "user-1", "Upcoming Dose", "Rifampicin is due at 08:00").Return(nil)

	err := manager.DeliverDoseReminder(types.AlarmPayload{
		MedicationID:   "med-1",
		MedicationName: "Rifampicin",
		UserID:         "user-1",
		Day:            types.Monday,
		DoseTime:       types.TimeOfDay{Hour: 8, Minute: 0},
		Kind:           types.AlarmLead,
	})

	require.NoError(t, err)
	notifications.AssertExpectations(t)
}

func TestDeliverDoseReminder_AtTimeMessage(t *testing.T) {
	notifications := &MockNotificationService{}
	manager := NewDoseNotificationManager(notifications, logger.New("debug"))

	notifications.On("SendPushNotification", "user-1", "Time to Take Your Medication",
		"Take Rifampicin now (Monday dose at 08:00)").Return(nil)

	err := manager.DeliverDoseReminder(types.AlarmPayload{
		MedicationID:   "med-1",
		MedicationName: "Rifampicin",
		UserID:         "user-1",
		Day:            types.Monday,
		DoseTime:       types.TimeOfDay{Hour: 8, Minute: 0},
		Kind:           types.AlarmAtTime,
	})

	require.NoError(t, err)
	notifications.AssertExpectations(t)
}
