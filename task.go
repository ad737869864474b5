package taskslab

// PollResult is the outcome of polling a Task once.
type PollResult int

const (
	// Pending indicates the task has not finished; it is expected to
	// arrange, before returning, for its Notifier to be woken when it
	// should be polled again.
	Pending PollResult = iota
	// Ready indicates the task has finished and will not be polled
	// again.
	Ready
)

// String implements fmt.Stringer.
func (r PollResult) String() string {
	if r == Ready {
		return "Ready"
	}
	return "Pending"
}

// Task is an externally supplied suspendable computation. Poll is called
// by the scheduler with a Notifier the task may clone and hand to
// whatever external event source (timer, socket, channel) will eventually
// make it ready again. The task owns the Notifier passed to it for the
// duration of the call only; if it wants to keep waking itself later, it
// must Clone the Notifier before returning.
//
// A Task must not retain a reference to itself that outlives the
// scheduler's ownership of it (enforced by the caller, not by this
// interface) and must not assume it runs on any goroutine other than the
// scheduler's.
type Task interface {
	Poll(n Notifier) PollResult
}

// TaskFunc adapts a plain poll function to the Task interface, for tasks
// with no other state than a closure.
type TaskFunc func(n Notifier) PollResult

// Poll calls f.
func (f TaskFunc) Poll(n Notifier) PollResult {
	return f(n)
}
