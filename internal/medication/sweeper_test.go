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

const week = 7 * 24 * time.Hour

func takenAt(ts time.Time) *time.Time { return &ts }

func TestSweepSchedules_Boundary(t *testing.T) {
	now := mondayAt(12, 0)
	med := medWithSchedule("med-1", types.WeeklySchedule{
		types.Monday: {
			{Time: tod(8, 0), Checked: true, TakenAt: takenAt(now.Add(-week - time.Second))},
			{Time: tod(12, 0), Checked: true, TakenAt: takenAt(now.Add(-6 * 24 * time.Hour))},
			{Time: tod(20, 0), Checked: true},
		},
	})

	changed, reset := SweepSchedules([]*types.Medication{med}, now, week)

	require.Len(t, changed, 1)
	assert.Equal(t, 1, reset)

	entries := changed[0].WeeklySchedule[types.Monday]

	// A week and a second old: reset
	assert.False(t, entries[0].Checked)
	assert.Nil(t, entries[0].TakenAt)

	// Six days old: untouched
	assert.True(t, entries[1].Checked)
	require.NotNil(t, entries[1].TakenAt)

	// No timestamp: untouched regardless of checked state
	assert.True(t, entries[2].Checked)
}

func TestSweepSchedules_ExactlySevenDaysIsKept(t *testing.T) {
	now := mondayAt(12, 0)
	med := medWithSchedule("med-1", types.WeeklySchedule{
		types.Monday: {{Time: tod(8, 0), Checked: true, TakenAt: takenAt(now.Add(-week))}},
	})

	changed, reset := SweepSchedules([]*types.Medication{med}, now, week)

	assert.Empty(t, changed, "only strictly older than the window is reset")
	assert.Zero(t, reset)
}

func TestSweepSchedules_DoesNotMutateInput(t *testing.T) {
	now := mondayAt(12, 0)
	med := medWithSchedule("med-1", types.WeeklySchedule{
		types.Tuesday: {{Time: tod(8, 0), Checked: true, TakenAt: takenAt(now.Add(-2 * week))}},
	})

	changed, reset := SweepSchedules([]*types.Medication{med}, now, week)

	require.Len(t, changed, 1)
	assert.Equal(t, 1, reset)
	assert.True(t, med.WeeklySchedule[types.Tuesday][0].Checked)
	assert.NotNil(t, med.WeeklySchedule[types.Tuesday][0].TakenAt)
}

func TestSweepSchedules_UnchangedMedicationsAreSkipped(t *testing.T) {
	now := mondayAt(12, 0)
	stale := medWithSchedule("stale", types.WeeklySchedule{
		types.Monday: {{Time: tod(8, 0), Checked: true, TakenAt: takenAt(now.Add(-2 * week))}},
	})
	fresh := medWithSchedule("fresh", types.WeeklySchedule{
		types.Monday: {{Time: tod(8, 0), Checked: true, TakenAt: takenAt(now.Add(-time.Hour))}},
	})

	changed, _ := SweepSchedules([]*types.Medication{stale, fresh}, now, week)

	require.Len(t, changed, 1)
	assert.Equal(t, "stale", changed[0].ID)
}

func TestSweeperRun_PersistsEachChangedMedication(t *testing.T) {
	now := mondayAt(12, 0)
	repo := &MockMedicationRepository{}
	sweeper := NewSweeper(repo, fixedClock{now}, logger.New("debug"), week, week)

	meds := []*types.Medication{
		medWithSchedule("med-1", types.WeeklySchedule{
			types.Monday: {{Time: tod(8, 0), Checked: true, TakenAt: takenAt(now.Add(-2 * week))}},
		}),
		medWithSchedule("med-2", types.WeeklySchedule{
			types.Monday: {{Time: tod(8, 0), Checked: true, TakenAt: takenAt(now.Add(-2 * week))}},
		}),
	}

	repo.On("GetAllMedications").Return(meds, nil)
	repo.On("UpdateMedication", "med-1", mock.AnythingOfType("*types.MedicationUpdates")).Return(fmt.Errorf("write failed"))
	repo.On("UpdateMedication", "med-2", mock.AnythingOfType("*types.MedicationUpdates")).Return(nil)

	// One medication's persistence failure does not block the rest
	sweeper.Run()

	repo.AssertExpectations(t)
}

func TestSweeperRun_LoadFailureIsTolerated(t *testing.T) {
	repo := &MockMedicationRepository{}
	sweeper := NewSweeper(repo, fixedClock{mondayAt(12, 0)}, logger.New("debug"), week, week)

	repo.On("GetAllMedications").Return([]*types.Medication(nil), fmt.Errorf("db down"))

	sweeper.Run()

	repo.AssertNotCalled(t, "UpdateMedication", mock.Anything, mock.Anything)
}
