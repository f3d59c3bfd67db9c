package clock

import "time"

// Clock provides the current time. Swapped for a Mock in tests.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the system clock.
type Real struct{}

// New creates a new Real clock.
func New() *Real {
	return &Real{}
}

func (c *Real) Now() time.Time {
	return time.Now().UTC()
}
