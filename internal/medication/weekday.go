package medication

import (
	"github.com/tubocare/medtrack/pkg/types"
)

// LabelsStartingAfter returns the seven days in calendar order beginning
// the day after d and wrapping so d itself comes last. The home screen
// uses it to present "other days" after today and tomorrow.
func LabelsStartingAfter(d types.Weekday) []types.Weekday {
	days := make([]types.Weekday, 0, 7)
	cur := d.Next()
	for i := 0; i < 7; i++ {
		days = append(days, cur)
		cur = cur.Next()
	}
	return days
}
