package medication

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tubocare/medtrack/pkg/database"
	"github.com/tubocare/medtrack/pkg/interfaces"
	"github.com/tubocare/medtrack/pkg/logger"
	"github.com/tubocare/medtrack/pkg/monitoring"
	"github.com/tubocare/medtrack/pkg/types"
)

// Repository implements the MedicationRepository interface
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new medication repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.MedicationRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// CreateMedication creates a new medication
func (r *Repository) CreateMedication(med *types.Medication) error {
	schedule, err := json.Marshal(med.WeeklySchedule)
	if err != nil {
		return fmt.Errorf("failed to encode weekly schedule: %w", err)
	}

	query := `
		INSERT INTO medications (
			id, user_id, name, instruction, frequency, dosage, remain,
			note, image, weekly_schedule, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	start := time.Now()
	_, err = r.db.Exec(query,
		med.ID,
		med.UserID,
		med.Name,
		med.Instruction,
		med.Frequency,
		med.Dosage,
		med.Remain,
		med.Note,
		med.Image,
		schedule,
		med.CreatedAt,
		med.UpdatedAt,
	)
	monitoring.RecordDBQuery("insert", time.Since(start))
	r.logger.DatabaseOperation("insert", "medications", time.Since(start).Milliseconds(), err == nil)

	if err != nil {
		r.logger.Errorf("Failed to create medication: %v", err)
		return fmt.Errorf("failed to create medication: %w", err)
	}

	r.logger.Infof("Created medication %s for user %s", med.ID, med.UserID)
	return nil
}

// GetMedicationByID retrieves a medication by ID
func (r *Repository) GetMedicationByID(id string) (*types.Medication, error) {
	query := `
		SELECT id, user_id, name, instruction, frequency, dosage, remain,
			   note, image, weekly_schedule, created_at, updated_at
		FROM medications
		WHERE id = $1`

	med, err := scanMedication(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("medication not found: %s", id))
		}
		r.logger.Errorf("Failed to get medication %s: %v", id, err)
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}

	return med, nil
}

// UpdateMedication updates an existing medication
func (r *Repository) UpdateMedication(id string, updates *types.MedicationUpdates) error {
	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	if updates.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *updates.Name)
		argIndex++
	}

	if updates.Instruction != nil {
		setParts = append(setParts, fmt.Sprintf("instruction = $%d", argIndex))
		args = append(args, *updates.Instruction)
		argIndex++
	}

	if updates.Frequency != nil {
		setParts = append(setParts, fmt.Sprintf("frequency = $%d", argIndex))
		args = append(args, *updates.Frequency)
		argIndex++
	}

	if updates.Dosage != nil {
		setParts = append(setParts, fmt.Sprintf("dosage = $%d", argIndex))
		args = append(args, *updates.Dosage)
		argIndex++
	}

	if updates.Remain != nil {
		setParts = append(setParts, fmt.Sprintf("remain = $%d", argIndex))
		args = append(args, *updates.Remain)
		argIndex++
	}

	if updates.Note != nil {
		setParts = append(setParts, fmt.Sprintf("note = $%d", argIndex))
		args = append(args, *updates.Note)
		argIndex++
	}

	if updates.Image != nil {
		setParts = append(setParts, fmt.Sprintf("image = $%d", argIndex))
		args = append(args, *updates.Image)
		argIndex++
	}

	if updates.WeeklySchedule != nil {
		schedule, err := json.Marshal(*updates.WeeklySchedule)
		if err != nil {
			return fmt.Errorf("failed to encode weekly schedule: %w", err)
		}
		setParts = append(setParts, fmt.Sprintf("weekly_schedule = $%d", argIndex))
		args = append(args, schedule)
		argIndex++
	}

	if len(setParts) == 0 {
		return fmt.Errorf("no updates provided")
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	query := fmt.Sprintf("UPDATE medications SET %s WHERE id = $%d", strings.Join(setParts, ", "), argIndex)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		r.logger.Errorf("Failed to update medication %s: %v", id, err)
		return fmt.Errorf("failed to update medication: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("medication not found: %s", id))
	}

	r.logger.Infof("Updated medication %s", id)
	return nil
}

// DeleteMedication deletes a medication
func (r *Repository) DeleteMedication(id string) error {
	query := `DELETE FROM medications WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Errorf("Failed to delete medication %s: %v", id, err)
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("medication not found: %s", id))
	}

	r.logger.Infof("Deleted medication %s", id)
	return nil
}

// GetMedications retrieves all medications for a user in insertion order
func (r *Repository) GetMedications(userID string) ([]*types.Medication, error) {
	query := `
		SELECT id, user_id, name, instruction, frequency, dosage, remain,
			   note, image, weekly_schedule, created_at, updated_at
		FROM medications
		WHERE user_id = $1
		ORDER BY created_at ASC`

	start := time.Now()
	rows, err := r.db.Query(query, userID)
	monitoring.RecordDBQuery("select", time.Since(start))
	if err != nil {
		r.logger.Errorf("Failed to get medications for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}
	defer rows.Close()

	return collectMedications(rows)
}

// GetAllMedications retrieves every medication, used by the weekly sweep
func (r *Repository) GetAllMedications() ([]*types.Medication, error) {
	query := `
		SELECT id, user_id, name, instruction, frequency, dosage, remain,
			   note, image, weekly_schedule, created_at, updated_at
		FROM medications
		ORDER BY created_at ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Errorf("Failed to get all medications: %v", err)
		return nil, fmt.Errorf("failed to get all medications: %w", err)
	}
	defer rows.Close()

	return collectMedications(rows)
}

// UpdateChecklist replaces one day's dose entries inside the stored
// weekly schedule without rewriting the rest of the medication row
func (r *Repository) UpdateChecklist(medicationID string, day types.Weekday, entries []types.ChecklistEntry) error {
	encoded, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode checklist entries: %w", err)
	}

	query := `
		UPDATE medications
		SET weekly_schedule = jsonb_set(weekly_schedule, $1, $2::jsonb, true),
			updated_at = $3
		WHERE id = $4`

	path := fmt.Sprintf("{%s}", day.Label())
	result, err := r.db.Exec(query, path, encoded, time.Now(), medicationID)
	if err != nil {
		r.logger.Errorf("Failed to update checklist for medication %s: %v", medicationID, err)
		return fmt.Errorf("failed to update checklist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("medication not found: %s", medicationID))
	}

	r.logger.Infof("Updated %s checklist for medication %s", day.Label(), medicationID)
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanning
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMedication(row rowScanner) (*types.Medication, error) {
	med := &types.Medication{}
	var schedule []byte

	err := row.Scan(
		&med.ID,
		&med.UserID,
		&med.Name,
		&med.Instruction,
		&med.Frequency,
		&med.Dosage,
		&med.Remain,
		&med.Note,
		&med.Image,
		&schedule,
		&med.CreatedAt,
		&med.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &med.WeeklySchedule); err != nil {
			return nil, fmt.Errorf("failed to decode weekly schedule: %w", err)
		}
	}
	if med.WeeklySchedule == nil {
		med.WeeklySchedule = types.WeeklySchedule{}
	}

	return med, nil
}

func collectMedications(rows *sql.Rows) ([]*types.Medication, error) {
	var meds []*types.Medication
	for rows.Next() {
		med, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		meds = append(meds, med)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate medications: %w", err)
	}

	return meds, nil
}
