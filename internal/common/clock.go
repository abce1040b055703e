package common

import "time"

// Clock abstracts wall-clock access so timestamp and duration computations
// are testable without real delays.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
