package interfaces

import "time"

// Timer is a cancellable one-shot callback.
type Timer interface {
	// Stop reports false when the callback already ran or was stopped.
	Stop() bool
}

// Clock schedules callbacks. Production code uses the wall clock; tests
// drive time by hand.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}
