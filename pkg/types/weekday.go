package types

import (
	"fmt"
	"time"
)

// Weekday is the enumerated day-of-week used throughout the medication
// schedule. The zero value is Monday, matching the order the weekly
// schedule is presented in.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Weekdays lists all seven days in canonical Monday-first order.
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayLabels = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// Label returns the display label for the day.
func (d Weekday) Label() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayLabels[d]
}

// String implements fmt.Stringer.
func (d Weekday) String() string {
	return d.Label()
}

// Valid reports whether the value is one of the seven known days.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Next returns the following day, wrapping Sunday to Monday.
func (d Weekday) Next() Weekday {
	return (d + 1) % 7
}

// TimeWeekday maps the day to the standard library's time.Weekday.
func (d Weekday) TimeWeekday() time.Weekday {
	if d == Sunday {
		return time.Sunday
	}
	return time.Weekday(d + 1)
}

// WeekdayOf maps a time.Weekday to the schedule's Weekday.
func WeekdayOf(wd time.Weekday) Weekday {
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd - 1)
}

// ParseDayLabel resolves a display label to its Weekday. Unknown labels
// are a validation error; there is no silent default day.
func ParseDayLabel(label string) (Weekday, error) {
	for i, l := range weekdayLabels {
		if l == label {
			return Weekday(i), nil
		}
	}
	return Monday, NewValidationError("INVALID_DAY_LABEL", fmt.Sprintf("unknown day label: %q", label))
}

// MarshalText implements encoding.TextMarshaler so weekly schedule map
// keys serialize as day labels.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday: %d", int(d))
	}
	return []byte(d.Label()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseDayLabel(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
