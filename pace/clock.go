package pace

import "time"

// Clock abstracts wall-clock sampling and timer waits so tests can drive
// the frame loop deterministically. The production clock is the real one.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
