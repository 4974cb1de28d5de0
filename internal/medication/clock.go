package medication

import (
	"time"

	"github.com/tubocare/medtrack/pkg/interfaces"
)

// SystemClock reads the wall clock. Everything downstream takes the time
// as a parameter so tests can substitute a fixed clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

var _ interfaces.Clock = SystemClock{}
