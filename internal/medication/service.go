package medication

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/tubocare/medtrack/pkg/config"
	"github.com/tubocare/medtrack/pkg/database"
	"github.com/tubocare/medtrack/pkg/interfaces"
	"github.com/tubocare/medtrack/pkg/logger"
	"github.com/tubocare/medtrack/pkg/monitoring"
	"github.com/tubocare/medtrack/pkg/types"
)

// Service implements the MedicationService interface
type Service struct {
	config       *config.Config
	logger       *logger.Logger
	repository   interfaces.MedicationRepository
	db           *database.DB
	server       *http.Server
	planner      *ReminderPlanner
	connectivity interfaces.ConnectivityChecker
	clock        interfaces.Clock
	sweeper      *Sweeper
	validator    *TokenValidator
	health       *monitoring.HealthManager
}

// New creates a new medication service
func New(cfg *config.Config, log *logger.Logger) interfaces.MedicationService {
	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Errorf("Failed to connect to database: %v", err)
		panic(err)
	}

	// Ensure schema exists
	if err := db.CreateSchema(context.Background()); err != nil {
		log.Errorf("Failed to create database schema: %v", err)
		panic(err)
	}

	// Initialize repository
	repository := NewRepository(db, log)

	// Initialize notification delivery
	notificationService := NewNotificationService(log)
	notificationManager := NewDoseNotificationManager(notificationService, log)

	// Initialize alarm scheduling
	alarms := NewTimerAlarmScheduler(notificationManager, log)
	clock := SystemClock{}
	planner := NewReminderPlanner(alarms, clock, log, time.Duration(cfg.Alarm.LeadMinutes)*time.Minute)

	// Initialize weekly sweep
	sweeper := NewSweeper(repository, clock, log,
		time.Duration(cfg.Sweep.IntervalHours)*time.Hour,
		time.Duration(cfg.Sweep.StaleAfterHours)*time.Hour)

	// Initialize connectivity probe
	var connectivity interfaces.ConnectivityChecker = AlwaysReachable{}
	if cfg.Connectivity.Enabled {
		connectivity = NewProbeConnectivityChecker(cfg.Connectivity.ProbeAddr,
			time.Duration(cfg.Connectivity.TimeoutSeconds)*time.Second, log)
	}

	// Initialize health checks
	health := monitoring.NewHealthManager("medication-service")
	health.Register("database", monitoring.NewDatabaseHealthChecker(db.DB, "database"))

	return &Service{
		config:       cfg,
		logger:       log,
		repository:   repository,
		db:           db,
		planner:      planner,
		connectivity: connectivity,
		clock:        clock,
		sweeper:      sweeper,
		validator:    NewTokenValidator(cfg.JWT.SecretKey),
		health:       health,
	}
}

// AddMedication creates a new medication and plans its reminder alarms
func (s *Service) AddMedication(med *types.Medication, userID string) (*types.Medication, error) {
	s.logger.Infof("Adding medication %q for user %s", med.Name, userID)

	if err := s.validateMedication(med); err != nil {
		return nil, err
	}

	if !s.connectivity.IsReachable() {
		return nil, types.NewConnectivityError("no internet connection, medication not saved")
	}

	med.ID = uuid.New().String()
	med.UserID = userID
	med.CreatedAt = s.clock.Now()
	med.UpdatedAt = med.CreatedAt
	if med.WeeklySchedule == nil {
		med.WeeklySchedule = types.WeeklySchedule{}
	}
	normalizeSchedule(med)

	if err := s.repository.CreateMedication(med); err != nil {
		return nil, fmt.Errorf("failed to add medication: %w", err)
	}

	// Plan reminders for the new schedule. A failed registration does not
	// undo the write; the next update replans everything.
	s.planner.PlanMedication(med)

	s.logger.Audit(userID, "add_medication", med.ID, true, nil)
	return med, nil
}

// GetMedication retrieves a medication by ID
func (s *Service) GetMedication(medID, userID string) (*types.Medication, error) {
	s.logger.Infof("Getting medication %s for user %s", medID, userID)

	med, err := s.repository.GetMedicationByID(medID)
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}

	if med.UserID != userID {
		return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("medication not found: %s", medID))
	}

	return med, nil
}

// UpdateMedication applies updates and replans the medication's alarms
func (s *Service) UpdateMedication(medID string, updates *types.MedicationUpdates, userID string) (*types.Medication, error) {
	s.logger.Infof("Updating medication %s for user %s", medID, userID)

	existing, err := s.GetMedication(medID, userID)
	if err != nil {
		return nil, err
	}

	if !s.connectivity.IsReachable() {
		return nil, types.NewConnectivityError("no internet connection, medication not updated")
	}

	updated := applyUpdates(existing, updates, s.clock.Now())
	normalizeSchedule(updated)

	if err := s.validateMedication(updated); err != nil {
		return nil, err
	}

	schedule := updated.WeeklySchedule
	updates.WeeklySchedule = &schedule
	if err := s.repository.UpdateMedication(medID, updates); err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}

	// Cancel-before-reschedule: the old schedule's keys are re-derived and
	// cancelled, then the new schedule is planned in full.
	s.planner.CancelMedication(existing)
	s.planner.PlanMedication(updated)

	s.logger.Audit(userID, "update_medication", medID, true, nil)
	return updated, nil
}

// DeleteMedication removes a medication and cancels its alarms
func (s *Service) DeleteMedication(medID, userID string) error {
	s.logger.Infof("Deleting medication %s for user %s", medID, userID)

	existing, err := s.GetMedication(medID, userID)
	if err != nil {
		return err
	}

	if !s.connectivity.IsReachable() {
		return types.NewConnectivityError("no internet connection, medication not deleted")
	}

	if err := s.repository.DeleteMedication(medID); err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	s.planner.CancelMedication(existing)

	s.logger.Audit(userID, "delete_medication", medID, true, nil)
	return nil
}

// GetMedications retrieves all medications for a user
func (s *Service) GetMedications(userID string) ([]*types.Medication, error) {
	meds, err := s.repository.GetMedications(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}
	return meds, nil
}

// WatchMedications streams the tri-state read of a user's medications:
// loading first, then success with data or error with the repository's
// message passed through unchanged.
func (s *Service) WatchMedications(userID string) <-chan types.MedicationsResult {
	results := make(chan types.MedicationsResult, 2)

	go func() {
		defer close(results)
		results <- types.LoadingResult()

		meds, err := s.repository.GetMedications(userID)
		if err != nil {
			results <- types.ErrorResult(err.Error())
			return
		}
		results <- types.SuccessResult(meds)
	}()

	return results
}

// ToggleDose marks one dose taken or not taken and persists the changed
// day's entries
func (s *Service) ToggleDose(medID string, day types.Weekday, doseTime types.TimeOfDay, checked bool, userID string) (*types.Medication, error) {
	s.logger.Infof("Toggling %s %s dose to %t on medication %s", day.Label(), doseTime, checked, medID)

	med, err := s.GetMedication(medID, userID)
	if err != nil {
		return nil, err
	}

	if !s.connectivity.IsReachable() {
		return nil, types.NewConnectivityError("no internet connection, dose not updated")
	}

	updated, changed := ToggleDose(med, day, doseTime, checked, s.clock.Now())
	if !changed {
		// Day or dose not in the schedule: a caller error, deliberately a
		// no-op rather than a failure.
		s.logger.Warnf("Toggle matched no entry on medication %s (%s %s)", medID, day.Label(), doseTime)
		return med, nil
	}

	if err := s.repository.UpdateChecklist(medID, day, updated.WeeklySchedule[day]); err != nil {
		return nil, fmt.Errorf("failed to persist dose toggle: %w", err)
	}

	return updated, nil
}

// GetDailySchedule builds the grouped home screen view for a user
func (s *Service) GetDailySchedule(userID string, now time.Time) (*types.DailyView, error) {
	meds, err := s.repository.GetMedications(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}
	return BuildDailyView(meds, now), nil
}

// GetWeeklySchedule buckets a user's doses across all seven days
func (s *Service) GetWeeklySchedule(userID string) ([]types.DayGroup, error) {
	meds, err := s.repository.GetMedications(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}
	return GroupByDay(meds), nil
}

// Start starts the medication service HTTP server and the weekly sweeper
func (s *Service) Start(addr string) error {
	if err := s.sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start sweeper: %w", err)
	}

	router := mux.NewRouter()
	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}

	s.logger.Infof("Starting Medication Service on %s", addr)
	return s.server.ListenAndServe()
}

// Stop stops the medication service
func (s *Service) Stop() error {
	s.sweeper.Stop()

	if s.server != nil {
		s.logger.Info("Stopping Medication Service")
		if err := s.server.Close(); err != nil {
			return err
		}
	}

	return s.db.Close()
}

// validateMedication validates medication data
func (s *Service) validateMedication(med *types.Medication) error {
	if med.Name == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "medication name is required")
	}

	if med.Dosage <= 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "dosage must be a positive number of doses per day")
	}

	if med.Remain < 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "remaining pill count must not be negative")
	}

	for day := range med.WeeklySchedule {
		if !day.Valid() {
			return types.NewValidationError("INVALID_DAY_LABEL", fmt.Sprintf("unknown schedule day: %d", int(day)))
		}
	}

	return nil
}

// normalizeSchedule resizes each day's checklist to the dosage count:
// longer lists are truncated, shorter lists are padded with empty
// entries. Existing entries keep their positions; resizing never
// reorders.
func normalizeSchedule(med *types.Medication) {
	for day, entries := range med.WeeklySchedule {
		switch {
		case len(entries) > med.Dosage:
			med.WeeklySchedule[day] = entries[:med.Dosage]
		case len(entries) < med.Dosage:
			padded := make([]types.ChecklistEntry, med.Dosage)
			copy(padded, entries)
			med.WeeklySchedule[day] = padded
		}
	}
}

// applyUpdates merges partial updates into a copy of the medication
func applyUpdates(med *types.Medication, updates *types.MedicationUpdates, now time.Time) *types.Medication {
	updated := *med
	updated.WeeklySchedule = med.WeeklySchedule.Clone()

	if updates.Name != nil {
		updated.Name = *updates.Name
	}
	if updates.Instruction != nil {
		updated.Instruction = *updates.Instruction
	}
	if updates.Frequency != nil {
		updated.Frequency = *updates.Frequency
	}
	if updates.Dosage != nil {
		updated.Dosage = *updates.Dosage
	}
	if updates.Remain != nil {
		updated.Remain = *updates.Remain
	}
	if updates.Note != nil {
		updated.Note = *updates.Note
	}
	if updates.Image != nil {
		updated.Image = *updates.Image
	}
	if updates.WeeklySchedule != nil {
		updated.WeeklySchedule = updates.WeeklySchedule.Clone()
	}

	updated.UpdatedAt = now
	return &updated
}
