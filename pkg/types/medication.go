package types

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock dose time with minute resolution.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day out of range: %q", s)
	}
	return t, nil
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinuteOfDay returns the minute offset from midnight, used for ordering.
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

// After reports whether t is strictly later in the day than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.MinuteOfDay() > other.MinuteOfDay()
}

// Equal reports whether two times are the same minute of the day.
func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.MinuteOfDay() == other.MinuteOfDay()
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ChecklistEntry is one scheduled dose occurrence. Time is nil until the
// dose time has been configured. TakenAt is non-nil exactly when Checked
// is true; the mutator maintains that invariant, not the type.
type ChecklistEntry struct {
	Time    *TimeOfDay `json:"time,omitempty"`
	Checked bool       `json:"checked"`
	TakenAt *time.Time `json:"taken_at,omitempty"`
}

// WeeklySchedule maps each active day to its ordered dose checklist.
// Days absent from the map are not scheduled.
type WeeklySchedule map[Weekday][]ChecklistEntry

// Clone returns a deep copy of the schedule.
func (ws WeeklySchedule) Clone() WeeklySchedule {
	if ws == nil {
		return nil
	}
	out := make(WeeklySchedule, len(ws))
	for day, entries := range ws {
		copied := make([]ChecklistEntry, len(entries))
		copy(copied, entries)
		out[day] = copied
	}
	return out
}

// Medication is a prescribed regimen for one patient.
type Medication struct {
	ID             string         `json:"id" db:"id"`
	UserID         string         `json:"user_id" db:"user_id"`
	Name           string         `json:"name" db:"name"`
	Instruction    string         `json:"instruction" db:"instruction"`
	Frequency      string         `json:"frequency" db:"frequency"`
	Dosage         int            `json:"dosage" db:"dosage"`
	Remain         int            `json:"remain" db:"remain"`
	Note           string         `json:"note" db:"note"`
	Image          string         `json:"image" db:"image"`
	WeeklySchedule WeeklySchedule `json:"weekly_schedule" db:"weekly_schedule"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// MedicationUpdates represents partial updates to a medication.
type MedicationUpdates struct {
	Name           *string         `json:"name,omitempty"`
	Instruction    *string         `json:"instruction,omitempty"`
	Frequency      *string         `json:"frequency,omitempty"`
	Dosage         *int            `json:"dosage,omitempty"`
	Remain         *int            `json:"remain,omitempty"`
	Note           *string         `json:"note,omitempty"`
	Image          *string         `json:"image,omitempty"`
	WeeklySchedule *WeeklySchedule `json:"weekly_schedule,omitempty"`
}

// ScheduledDose pairs a medication with one of its checklist entries.
type ScheduledDose struct {
	Medication *Medication    `json:"medication"`
	Day        Weekday        `json:"day"`
	Index      int            `json:"index"`
	Entry      ChecklistEntry `json:"entry"`
}

// DayGroup is the dose bucket for a single day.
type DayGroup struct {
	Day   Weekday         `json:"day"`
	Doses []ScheduledDose `json:"doses"`
}

// DailyView is the grouped schedule the home screen renders: today's and
// tomorrow's doses, the next dose still ahead of the clock, and the rest
// of the week in calendar order starting after tomorrow.
type DailyView struct {
	Today     []ScheduledDose `json:"today"`
	Tomorrow  []ScheduledDose `json:"tomorrow"`
	NextDose  *ScheduledDose  `json:"next_dose,omitempty"`
	OtherDays []DayGroup      `json:"other_days"`
}
