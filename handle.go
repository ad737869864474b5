package taskslab

import "runtime"

// Handle is the external receipt for a task inserted into a Scheduler.
// It carries the task's key and an owning clone of its page's
// reference, so the page stays alive (and addressable) for as long as
// any Handle, Notifier, or PageRef refers to it.
//
// A Handle must eventually be disposed of by exactly one of Close,
// IntoRaw, or Scheduler.Take; once one of those has run, IntoRaw and Take
// return ErrHandleConsumed and Close is a no-op. A Handle that is merely dropped
// (garbage collected) without any of those is caught by a finalizer,
// which performs the same bookkeeping Close would and logs a warning —
// but relying on the GC for this is a bug in caller code, not a
// supported pattern; the finalizer exists as a backstop, not an API.
type Handle struct {
	sched    *Scheduler
	key      uint64
	consumed bool
	page     PageRef
}

// newHandle wraps (key, page) in a Handle and installs the finalizer
// backstop. page is expected to already be an owned clone (one refcount
// unit charged to this Handle).
func newHandle(sched *Scheduler, key uint64, page PageRef) *Handle {
	h := &Handle{sched: sched, key: key, page: page}
	runtime.SetFinalizer(h, finalizeHandle)
	return h
}

func finalizeHandle(h *Handle) {
	if h.consumed {
		return
	}
	logger := h.logger()
	logHandleFinalized(logger, h.key)
	h.markDroppedAndClose()
}

func (h *Handle) logger() Logger {
	if h.sched != nil && h.sched.logger != nil {
		return h.sched.logger
	}
	return getGlobalLogger()
}

// markDroppedAndClose sets the page's dropped bit for this handle's
// sub-index and releases the handle's page reference. Shared by Close
// and the finalizer.
func (h *Handle) markDroppedAndClose() {
	i := subIndexOf(h.key)
	h.page.Page().MarkDropped(i)
	h.page.Close()
	h.consumed = true
}

// consume marks the handle as consumed without setting the dropped bit
// (used by Scheduler.Take, which already cleared the flags itself, and
// by IntoRaw, which intentionally skips the drop side effect).
func (h *Handle) consume() {
	h.page.Close()
	h.consumed = true
	runtime.SetFinalizer(h, nil)
}

// Notifier mints a Notifier for this Handle's task, suitable for handing
// to an external event source (a timer queue, a socket readiness
// callback) that should wake the task outside of the normal Poll-return
// path. Does not consume or otherwise affect the Handle itself.
func (h *Handle) Notifier() Notifier {
	return h.page.ToNotifier(subIndexOf(h.key))
}

// HasCompleted reports whether the task's completed bit is set, i.e.
// whether it has returned Ready and not yet been reclaimed or taken.
func (h *Handle) HasCompleted() bool {
	return h.page.Page().HasCompleted(subIndexOf(h.key))
}

// IntoRaw consumes the handle and returns its key without marking the
// slot dropped: the caller is expected to later reconstitute a Handle
// for the same key via Scheduler.FromRawHandle. Returns ErrHandleConsumed
// if the handle was already consumed.
func (h *Handle) IntoRaw() (uint64, error) {
	if h.consumed {
		return 0, ErrHandleConsumed
	}
	key := h.key
	h.consume()
	return key, nil
}

// Close is the explicit cancellation path: it marks the slot's dropped
// bit so the scheduler reclaims it on the next Poll, and releases this
// Handle's page reference. Close on an already-consumed Handle is a
// no-op, so callers may defer it unconditionally alongside IntoRaw/Take.
func (h *Handle) Close() {
	if h.consumed {
		return
	}
	h.markDroppedAndClose()
	runtime.SetFinalizer(h, nil)
}
