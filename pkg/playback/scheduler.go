package playback

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs f once after d elapses.
// Implementations call f on their own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules callbacks with the runtime timer.
type SystemScheduler struct{}

// AfterFunc wraps time.AfterFunc.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
