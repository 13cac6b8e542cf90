package policies

import (
	"time"

	"campstation/internal/domain/shared/daterange"
)

// Clock supplies "now" to handlers that depend on the booking day.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (UTC when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		return now.In(c.Location)
	}
	return now.UTC()
}

// Today is the clock's current calendar day.
func Today(c Clock) time.Time {
	return daterange.Day(c.Now())
}
