// Package taskslab provides a single-threaded cooperative task
// scheduler: pinned slab storage for tasks, cache-line-sized bitmap
// pages for per-task readiness/completion/drop flags, and a
// pointer-tagged Notifier that represents "wake this one task" as a
// single pointer.
//
// # Architecture
//
// Three pieces, built leaves-first:
//
//   - [WordCell] is a plain 64-bit cell with non-atomic bitwise
//     mutators. The scheduler's state is never shared between
//     goroutines; a [Scheduler] is only ever touched by one goroutine at a time,
//     which is what makes WordCell's lack of synchronization sound.
//   - [Page] packs four WordCells (refcount, notified, completed,
//     dropped) into exactly 64 bytes aligned to 64 bytes, so that a
//     [Notifier] — a single pointer into a live Page — can recover its
//     owning Page's base address by alignment arithmetic alone.
//   - [Slab] is the pinned, chunked arena that owns task storage:
//     occupied slots never move, so a task may safely hold
//     self-referential state across suspensions.
//
// [Scheduler] ties these together: [Scheduler.Insert] places a task and
// returns a [Handle]; [Scheduler.Poll] sweeps every page's notified
// bitmap, invoking [Task.Poll] for each set bit, and reclaims slots
// whose [Handle] was dropped.
//
// # Re-entrancy
//
// Scheduler.Poll, Insert, Take, and FromRawHandle may all be called from
// inside a Task's own Poll method. Because the scheduler carries no
// locks at all — the whole design assumes one goroutine at a time — such
// calls are ordinary recursive Go calls; there is no borrow to release
// or re-acquire as there would be in a language with static aliasing
// checks. See Scheduler.Poll's doc for what that means for page growth
// mid-sweep.
//
// # Logging
//
// Scheduler diagnostics (page growth, slot reclamation, finalizer
// backstops firing) go through the [Logger] interface. The default is the
// logger set by [SetStructuredLogger], or a no-op if none has been set;
// [NewDefaultLogger] gives a human-readable stderr logger, and
// [NewLogifaceLogger] adapts a [Logger] onto a
// github.com/joeycumines/logiface pipeline for callers already invested
// in that framework.
//
// # Companion packages
//
// extwake gives a host loop a cross-goroutine wake signal for idle-park
// integration, and timerqueue gives it a min-heap of Notifier deadlines.
// Neither is required by Scheduler itself — per the design's resolved
// open question, the core has no opinion on an outer "root waker" — they
// exist for cmd/examplehost and similar host loops that want to sleep
// between Poll calls instead of busy-polling.
package taskslab
