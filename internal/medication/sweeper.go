package medication

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tubocare/medtrack/pkg/interfaces"
	"github.com/tubocare/medtrack/pkg/logger"
	"github.com/tubocare/medtrack/pkg/monitoring"
	"github.com/tubocare/medtrack/pkg/types"
)

// SweepSchedules resets every checklist entry whose taken timestamp is
// strictly older than staleAfter, clearing both the checked flag and the
// timestamp. Entries with no timestamp pass through regardless of their
// checked state. The input is not mutated; the returned slice holds
// copies of only the medications that changed, and the count is the
// number of entries reset.
func SweepSchedules(meds []*types.Medication, now time.Time, staleAfter time.Duration) ([]*types.Medication, int) {
	var changed []*types.Medication
	reset := 0

	for _, med := range meds {
		var swept *types.Medication

		for day, entries := range med.WeeklySchedule {
			for i, entry := range entries {
				if entry.TakenAt == nil || now.Sub(*entry.TakenAt) <= staleAfter {
					continue
				}
				if swept == nil {
					copied := *med
					copied.WeeklySchedule = med.WeeklySchedule.Clone()
					swept = &copied
				}
				cleared := swept.WeeklySchedule[day][i]
				cleared.Checked = false
				cleared.TakenAt = nil
				swept.WeeklySchedule[day][i] = cleared
				reset++
			}
		}

		if swept != nil {
			changed = append(changed, swept)
		}
	}

	return changed, reset
}

// Sweeper runs the weekly checklist reset on a recurring cadence so the
// weekly view stays meaningful across week boundaries.
type Sweeper struct {
	repository interfaces.MedicationRepository
	clock      interfaces.Clock
	logger     *logger.Logger
	staleAfter time.Duration
	interval   time.Duration
	cron       *cron.Cron
}

// NewSweeper creates a new weekly reset sweeper
func NewSweeper(repo interfaces.MedicationRepository, clock interfaces.Clock, log *logger.Logger, interval, staleAfter time.Duration) *Sweeper {
	return &Sweeper{
		repository: repo,
		clock:      clock,
		logger:     log,
		staleAfter: staleAfter,
		interval:   interval,
	}
}

// Start schedules the recurring sweep job.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.Run); err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}
	s.cron.Start()

	s.logger.Infof("Weekly checklist sweeper started with cadence %s", s.interval)
	return nil
}

// Stop stops the recurring sweep job.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.logger.Info("Weekly checklist sweeper stopped")
	}
}

// Run performs one sweep over every medication. Each changed medication
// is re-persisted individually: one medication's write failing is logged
// and does not block sweeping the rest.
func (s *Sweeper) Run() {
	meds, err := s.repository.GetAllMedications()
	if err != nil {
		s.logger.Errorf("Failed to load medications for sweep: %v", err)
		return
	}

	changed, reset := SweepSchedules(meds, s.clock.Now(), s.staleAfter)

	failures := 0
	for _, med := range changed {
		schedule := med.WeeklySchedule
		updates := &types.MedicationUpdates{WeeklySchedule: &schedule}
		if err := s.repository.UpdateMedication(med.ID, updates); err != nil {
			s.logger.Errorf("Failed to persist swept schedule for medication %s: %v", med.ID, err)
			failures++
		}
	}

	monitoring.RecordSweep(reset)
	s.logger.SweepEvent(len(changed), reset, failures)
}
