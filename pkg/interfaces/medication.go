package interfaces

import (
	"time"

	"github.com/tubocare/medtrack/pkg/types"
)

// MedicationService defines the interface for medication regimen management
type MedicationService interface {
	// Medication management
	AddMedication(med *types.Medication, userID string) (*types.Medication, error)
	GetMedication(medID, userID string) (*types.Medication, error)
	UpdateMedication(medID string, updates *types.MedicationUpdates, userID string) (*types.Medication, error)
	DeleteMedication(medID, userID string) error

	// Medication queries
	GetMedications(userID string) ([]*types.Medication, error)
	WatchMedications(userID string) <-chan types.MedicationsResult

	// Dose checklist
	ToggleDose(medID string, day types.Weekday, doseTime types.TimeOfDay, checked bool, userID string) (*types.Medication, error)

	// Schedule views
	GetDailySchedule(userID string, now time.Time) (*types.DailyView, error)
	GetWeeklySchedule(userID string) ([]types.DayGroup, error)

	// Service management
	Start(addr string) error
	Stop() error
}

// MedicationRepository defines the interface for medication persistence
type MedicationRepository interface {
	CreateMedication(med *types.Medication) error
	GetMedicationByID(id string) (*types.Medication, error)
	UpdateMedication(id string, updates *types.MedicationUpdates) error
	DeleteMedication(id string) error
	GetMedications(userID string) ([]*types.Medication, error)
	GetAllMedications() ([]*types.Medication, error)

	// UpdateChecklist persists one day's dose entries without rewriting the
	// rest of the medication row.
	UpdateChecklist(medicationID string, day types.Weekday, entries []types.ChecklistEntry) error
}

// AlarmScheduler defines the interface to the process-wide alarm registry
type AlarmScheduler interface {
	// ScheduleExact registers an exact-time alarm for the dose itself.
	ScheduleExact(fireAt time.Time, payload types.AlarmPayload, key types.AlarmKey) error

	// ScheduleClock registers the higher-priority lead reminder.
	ScheduleClock(fireAt time.Time, payload types.AlarmPayload, key types.AlarmKey) error

	// Cancel removes a registration by its derived key. Cancelling a key
	// that was never registered is not an error.
	Cancel(key types.AlarmKey) error
}

// NotificationService defines the interface for dose reminder delivery
type NotificationService interface {
	SendPushNotification(userID, title, message string) error
	SendSMS(to, message string) error
}

// ConnectivityChecker reports whether the network is reachable. Writes are
// skipped entirely when it is not; there is no queued retry.
type ConnectivityChecker interface {
	IsReachable() bool
}

// Clock supplies the current time so schedule computations stay
// deterministic under test.
type Clock interface {
	Now() time.Time
}
