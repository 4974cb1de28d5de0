package types

import (
	"fmt"
	"time"
)

// AlarmKind distinguishes the two reminders planned for one dose.
type AlarmKind string

const (
	// AlarmAtTime fires at the dose time itself.
	AlarmAtTime AlarmKind = "at"
	// AlarmLead fires ahead of the dose time (higher scheduling priority).
	AlarmLead AlarmKind = "lead"
)

// AlarmKey is the stable identity of one planned reminder. It is a pure
// function of (medication, day, dose index, kind): cancellation re-derives
// the key instead of looking up prior registrations, so nothing about it
// may depend on insertion order or random state.
type AlarmKey struct {
	MedicationID string    `json:"medication_id"`
	Day          Weekday   `json:"day"`
	DoseIndex    int       `json:"dose_index"`
	Kind         AlarmKind `json:"kind"`
}

// String renders the composite key used by the alarm registry.
func (k AlarmKey) String() string {
	return fmt.Sprintf("%s/%s/%d/%s", k.MedicationID, k.Day.Label(), k.DoseIndex, k.Kind)
}

// AlarmPayload carries enough state for the alarm handler to render a
// notification without re-querying the medication.
type AlarmPayload struct {
	MedicationID   string    `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	UserID         string    `json:"user_id"`
	Day            Weekday   `json:"day"`
	DoseIndex      int       `json:"dose_index"`
	DoseTime       TimeOfDay `json:"dose_time"`
	Kind           AlarmKind `json:"kind"`
}

// PlannedAlarm is one computed registration: when it fires and what it
// carries.
type PlannedAlarm struct {
	Key     AlarmKey     `json:"key"`
	FireAt  time.Time    `json:"fire_at"`
	Payload AlarmPayload `json:"payload"`
}
