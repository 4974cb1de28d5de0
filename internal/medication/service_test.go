package medication

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tubocare/medtrack/pkg/logger"
	"github.com/tubocare/medtrack/pkg/types"
)

// MockMedicationRepository is a mock implementation of the medication repository
type MockMedicationRepository struct {
	mock.Mock
}

func (m *MockMedicationRepository) CreateMedication(med *types.Medication) error {
	args := m.Called(med)
	return args.Error(0)
}

func (m *MockMedicationRepository) GetMedicationByID(id string) (*types.Medication, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Medication), args.Error(1)
}

func (m *MockMedicationRepository) UpdateMedication(id string, updates *types.MedicationUpdates) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

func (m *MockMedicationRepository) DeleteMedication(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMedicationRepository) GetMedications(userID string) ([]*types.Medication, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Medication), args.Error(1)
}

func (m *MockMedicationRepository) GetAllMedications() ([]*types.Medication, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Medication), args.Error(1)
}

func (m *MockMedicationRepository) UpdateChecklist(medicationID string, day types.Weekday, entries []types.ChecklistEntry) error {
	args := m.Called(medicationID, day, entries)
	return args.Error(0)
}

type stubConnectivity struct {
	reachable bool
}

func (s stubConnectivity) IsReachable() bool { return s.reachable }

func newTestService(repo *MockMedicationRepository, alarms *MockAlarmScheduler, online bool, now time.Time) *Service {
	log := logger.New("debug")
	return &Service{
		logger:       log,
		repository:   repo,
		planner:      NewReminderPlanner(alarms, fixedClock{now}, log, 5*time.Minute),
		connectivity: stubConnectivity{reachable: online},
		clock:        fixedClock{now},
	}
}

func permissiveAlarms() *MockAlarmScheduler {
	alarms := &MockAlarmScheduler{}
	alarms.On("ScheduleExact", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	alarms.On("ScheduleClock", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	alarms.On("Cancel", mock.Anything).Return(nil)
	return alarms
}

func TestAddMedication_Success(t *testing.T) {
	now := mondayAt(9, 0)
	repo := &MockMedicationRepository{}
	alarms := permissiveAlarms()
	svc := newTestService(repo, alarms, true, now)

	repo.On("CreateMedication", mock.AnythingOfType("*types.Medication")).Return(nil)

	med := &types.Medication{
		Name:   "Isoniazid",
		Dosage: 1,
		WeeklySchedule: types.WeeklySchedule{
			types.Wednesday: {{Time: tod(8, 0)}},
		},
	}

	created, err := svc.AddMedication(med, "user-1")

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, now, created.UpdatedAt)
	repo.AssertExpectations(t)
	alarms.AssertCalled(t, "ScheduleExact", mock.Anything, mock.Anything, mock.Anything)
	alarms.AssertCalled(t, "ScheduleClock", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMedication_ValidationFailure(t *testing.T) {
	repo := &MockMedicationRepository{}
	svc := newTestService(repo, permissiveAlarms(), true, mondayAt(9, 0))

	_, err := svc.AddMedication(&types.Medication{Name: "", Dosage: 1}, "user-1")

	require.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))
	repo.AssertNotCalled(t, "CreateMedication", mock.Anything)
}

func TestAddMedication_NoInternet(t *testing.T) {
	repo := &MockMedicationRepository{}
	svc := newTestService(repo, permissiveAlarms(), false, mondayAt(9, 0))

	_, err := svc.AddMedication(&types.Medication{Name: "Rifampicin", Dosage: 1}, "user-1")

	require.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeConnectivity))
	repo.AssertNotCalled(t, "CreateMedication", mock.Anything)
}

func TestAddMedication_NormalizesScheduleToDosage(t *testing.T) {
	repo := &MockMedicationRepository{}
	svc := newTestService(repo, permissiveAlarms(), true, mondayAt(9, 0))

	var persisted *types.Medication
	repo.On("CreateMedication", mock.AnythingOfType("*types.Medication")).
		Run(func(args mock.Arguments) { persisted = args.Get(0).(*types.Medication) }).
		Return(nil)

	med := &types.Medication{
		Name:   "Ethambutol",
		Dosage: 2,
		WeeklySchedule: types.WeeklySchedule{
			types.Monday:  {{Time: tod(8, 0)}, {Time: tod(12, 0)}, {Time: tod(20, 0)}},
			types.Tuesday: {{Time: tod(8, 0)}},
		},
	}

	_, err := svc.AddMedication(med, "user-1")

	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Len(t, persisted.WeeklySchedule[types.Monday], 2, "longer day truncated")
	require.Len(t, persisted.WeeklySchedule[types.Tuesday], 2, "shorter day padded")
	assert.Nil(t, persisted.WeeklySchedule[types.Tuesday][1].Time)
}

func TestGetMedication_OwnershipHidesOtherUsers(t *testing.T) {
	repo := &MockMedicationRepository{}
	svc := newTestService(repo, permissiveAlarms(), true, mondayAt(9, 0))

	med := medWithSchedule("med-1", types.WeeklySchedule{})
	med.UserID = "owner"
	repo.On("GetMedicationByID", "med-1").Return(med, nil)

	_, err := svc.GetMedication("med-1", "someone-else")

	require.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeNotFound))
}

func TestUpdateMedication_CancelsOldAlarmsThenPlansNew(t *testing.T) {
	now := mondayAt(9, 0)
	repo := &MockMedicationRepository{}
	alarms := permissiveAlarms()
	svc := newTestService(repo, alarms, true, now)

	existing := medWithSchedule("med-1", types.WeeklySchedule{
		types.Monday: {{Time: tod(8, 0)}},
	})
	existing.UserID = "user-1"
	existing.Name = "Isoniazid"
	existing.Dosage = 1

	repo.On("GetMedicationByID", "med-1").Return(existing, nil)
	repo.On("UpdateMedication", "med-1", mock.AnythingOfType("*types.MedicationUpdates")).Return(nil)

	newSchedule := types.WeeklySchedule{types.Friday: {{Time: tod(20, 0)}}}
	updated, err := svc.UpdateMedication("med-1", &types.MedicationUpdates{WeeklySchedule: &newSchedule}, "user-1")

	require.NoError(t, err)
	assert.Equal(t, now, updated.UpdatedAt)

	// Old Monday keys cancelled, new Friday keys registered
	for _, key := range AlarmKeysFor(existing) {
		alarms.AssertCalled(t, "Cancel", key)
	}
	assert.Len(t, updated.WeeklySchedule[types.Friday], 1)
	alarms.AssertCalled(t, "ScheduleExact", mock.Anything, mock.Anything,
		types.AlarmKey{MedicationID: "med-1", Day: types.Friday, DoseIndex: 0, Kind: types.AlarmAtTime})
}

func TestDeleteMedication_CancelsAlarms(t *testing.T) {
	repo := &MockMedicationRepository{}
	alarms := permissiveAlarms()
	svc := newTestService(repo, alarms, true, mondayAt(9, 0))

	med := medWithSchedule("med-1", types.WeeklySchedule{
		types.Tuesday: {{Time: tod(8, 0)}},
	})
	med.UserID = "user-1"

	repo.On("GetMedicationByID", "med-1").Return(med, nil)
	repo.On("DeleteMedication", "med-1").Return(nil)

	err := svc.DeleteMedication("med-1", "user-1")

	require.NoError(t, err)
	for _, key := range AlarmKeysFor(med) {
		alarms.AssertCalled(t, "Cancel", key)
	}
}

func TestToggleDose_PersistsChangedDayOnly(t *testing.T) {
	now := mondayAt(9, 0)
	repo := &MockMedicationRepository{}
	svc := newTestService(repo, permissiveAlarms(), true, now)

	med := medWithSchedule("med-1", types.WeeklySchedule{
		types.Monday:  {{Time: tod(8, 0)}},
		types.Tuesday: {{Time: tod(8, 0)}},
	})
	med.UserID = "user-1"

	repo.On("GetMedicationByID", "med-1").Return(med, nil)
	repo.On("UpdateChecklist", "med-1", types.Monday, mock.AnythingOfType("[]types.ChecklistEntry")).Return(nil)

	updated, err := svc.ToggleDose("med-1", types.Monday, *tod(8, 0), true, "user-1")

	require.NoError(t, err)
	assert.True(t, updated.WeeklySchedule[types.Monday][0].Checked)
	require.NotNil(t, updated.WeeklySchedule[types.Monday][0].TakenAt)
	assert.Equal(t, now, *updated.WeeklySchedule[types.Monday][0].TakenAt)
	repo.AssertNotCalled(t, "UpdateChecklist", "med-1", types.Tuesday, mock.Anything)
}

func TestToggleDose_UnscheduledDoseIsNoOp(t *testing.T) {
	repo := &MockMedicationRepository{}
	svc := newTestService(repo, permissiveAlarms(), true, mondayAt(9, 0))

	med := medWithSchedule("med-1", types.WeeklySchedule{
		types.Monday: {{Time: tod(8, 0)}},
	})
	med.UserID = "user-1"

	repo.On("GetMedicationByID", "med-1").Return(med, nil)

	returned, err := svc.ToggleDose("med-1", types.Sunday, *tod(8, 0), true, "user-1")

	require.NoError(t, err)
	assert.Same(t, med, returned)
	repo.AssertNotCalled(t, "UpdateChecklist", mock.Anything, mock.Anything, mock.Anything)
}

func TestWatchMedications_LoadingThenSuccess(t *testing.T) {
	repo := &MockMedicationRepository{}
	svc := newTestService(repo, permissiveAlarms(), true, mondayAt(9, 0))

	meds := []*types.Medication{medWithSchedule("med-1", types.WeeklySchedule{})}
	repo.On("GetMedications", "user-1").Return(meds, nil)

	results := svc.WatchMedications("user-1")

	first, ok := <-results
	require.True(t, ok)
	assert.Equal(t, types.ResultLoading, first.Status)

	second, ok := <-results
	require.True(t, ok)
	assert.Equal(t, types.ResultSuccess, second.Status)
	assert.Equal(t, meds, second.Medications)

	_, ok = <-results
	assert.False(t, ok, "channel closes after the terminal result")
}

func TestWatchMedications_LoadingThenError(t *testing.T) {
	repo := &MockMedicationRepository{}
	svc := newTestService(repo, permissiveAlarms(), true, mondayAt(9, 0))

	repo.On("GetMedications", "user-1").Return(nil, fmt.Errorf("connection refused"))

	results := svc.WatchMedications("user-1")

	first := <-results
	assert.Equal(t, types.ResultLoading, first.Status)

	second := <-results
	assert.Equal(t, types.ResultError, second.Status)
	assert.Contains(t, second.Message, "connection refused")
}

func TestGetDailySchedule_UsesSuppliedClock(t *testing.T) {
	repo := &MockMedicationRepository{}
	svc := newTestService(repo, permissiveAlarms(), true, mondayAt(9, 0))

	meds := []*types.Medication{medWithSchedule("med-1", types.WeeklySchedule{
		types.Tuesday: {{Time: tod(8, 0)}},
	})}
	repo.On("GetMedications", "user-1").Return(meds, nil)

	view, err := svc.GetDailySchedule("user-1", mondayAt(9, 0))

	require.NoError(t, err)
	assert.Empty(t, view.Today)
	require.Len(t, view.Tomorrow, 1)
	assert.Equal(t, types.Tuesday, view.Tomorrow[0].Day)
	require.NotNil(t, view.NextDose)
	assert.Equal(t, types.Tuesday, view.NextDose.Day)
}
