// Package extwake provides a cross-goroutine wake signal: a way for an
// external goroutine (an I/O callback, a timer thread, another
// scheduler) to interrupt a host loop that is blocked waiting for work,
// so it can call taskslab.Scheduler.Poll again.
//
// taskslab's own Scheduler never needs this — Notifier already handles
// single-goroutine wake bookkeeping — but a host loop that wants to
// sleep between Poll calls needs some way to be told "an event arrived
// on another goroutine, stop sleeping". extwake is that mechanism,
// split into its own package so the scheduler core stays free of
// OS-specific build tags.
package extwake

// Signal is a many-writers, one-reader wake channel. Raise is safe to
// call from any goroutine, any number of times; each call guarantees at
// least one pending wake is observable via C(), coalescing bursts into a
// single readiness signal the same way an eventfd counter or a
// single-slot channel would.
type Signal interface {
	// Raise wakes the reader. Safe to call concurrently and any number
	// of times before the reader drains; wakes coalesce.
	Raise() error

	// C returns a channel that becomes readable when Raise has been
	// called since the last receive from C.
	C() <-chan struct{}

	// Close releases the underlying OS resource (fd, channel). Raise
	// and C must not be used afterward.
	Close() error
}
