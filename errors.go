package taskslab

import "errors"

// Standard errors: package-level Err* values, checked with errors.Is.
var (
	// ErrUnknownKey is returned by operations given a key that does not
	// currently name an occupied slot.
	ErrUnknownKey = errors.New("taskslab: unknown key")

	// ErrHandleConsumed is returned when an operation is attempted on a
	// Handle that has already been consumed by Take or IntoRaw.
	ErrHandleConsumed = errors.New("taskslab: handle already consumed")

	// ErrHandleDropped is returned by Take when the Handle's slot has
	// already had its dropped bit set (e.g. the Handle was closed
	// through another reference path). In builds without the
	// taskslab_debug tag this is surfaced as an error rather than a panic,
	// so callers can handle the race without the process aborting; with
	// the tag, Take's debug assertion panics instead.
	ErrHandleDropped = errors.New("taskslab: handle already dropped")
)
