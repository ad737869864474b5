package taskslab

import (
	"runtime"
	"unsafe"
)

// Page is a 64-byte, 64-byte-aligned control block holding four status
// words for up to 64 tasks (one bit per task per word):
//
//   - refcount: number of live PageRefs plus one unit per outstanding
//     Notifier.
//   - notified: bit i set iff the task at sub-index i has been woken since
//     the last TakeNotified.
//   - completed: bit i set iff the task at sub-index i returned Ready and
//     has not yet been taken or reclaimed.
//   - dropped: bit i set iff the Handle for sub-index i has been dropped
//     and the slot awaits reclamation.
//
// The 64-byte size and alignment are load-bearing: a Notifier is a single
// pointer into a live Page, recovered by alignment arithmetic (see
// Notifier, below), so any byte pointer derived from a Page must be able
// to round back down to the Page's base address.
type Page struct {
	refcount  WordCell
	notified  WordCell
	completed WordCell
	dropped   WordCell
	_         [pageSize - 4*sizeOfWordCell]byte // padding to pageSize
}

// Notify sets the notified bit for sub-index i.
func (p *Page) Notify(i int) {
	p.notified.FetchOr(1 << uint(i))
}

// TakeNotified atomically (with respect to the single owning goroutine)
// reads and clears the notified bitmap, then masks out any bits currently
// set in completed or dropped. The mask is essential: a spurious wake
// that arrives after completion (or after the handle has been dropped)
// must not cause the scheduler to poll the task again.
func (p *Page) TakeNotified() uint64 {
	n := p.notified.Swap(0)
	mask := p.completed.Load() | p.dropped.Load()
	return n &^ mask
}

// MarkCompleted sets the completed bit for sub-index i.
func (p *Page) MarkCompleted(i int) {
	p.completed.FetchOr(1 << uint(i))
}

// HasCompleted reports whether the completed bit for sub-index i is set.
func (p *Page) HasCompleted(i int) bool {
	return p.completed.Load()&(1<<uint(i)) != 0
}

// MarkDropped sets the dropped bit for sub-index i.
func (p *Page) MarkDropped(i int) {
	p.dropped.FetchOr(1 << uint(i))
}

// WasDropped reports whether the dropped bit for sub-index i is set.
func (p *Page) WasDropped(i int) bool {
	return p.dropped.Load()&(1<<uint(i)) != 0
}

// TakeDropped reads and clears the dropped bitmap.
func (p *Page) TakeDropped() uint64 {
	return p.dropped.Swap(0)
}

// Initialize marks sub-index i as newly occupied: sets notified, clears
// completed and dropped, so the task runs once immediately on the next
// poll sweep.
func (p *Page) Initialize(i int) {
	bit := uint64(1) << uint(i)
	p.notified.FetchOr(bit)
	p.completed.FetchAnd(^bit)
	p.dropped.FetchAnd(^bit)
}

// Clear clears all three status bits for sub-index i. Used on reclamation
// and on Take.
func (p *Page) Clear(i int) {
	mask := ^(uint64(1) << uint(i))
	p.notified.FetchAnd(mask)
	p.completed.FetchAnd(mask)
	p.dropped.FetchAnd(mask)
}

// refcountSaturationGuard is half of the maximum WordCell value; Clone
// debug-asserts the refcount never approaches it.
const refcountSaturationGuard = ^uint64(0) / 2

// RefcountInc increments the refcount and returns the previous value.
func (p *Page) RefcountInc() uint64 {
	old := p.refcount.FetchAdd(1)
	debugAssert(old < refcountSaturationGuard, "taskslab: page refcount approaching saturation")
	return old
}

// RefcountDec decrements the refcount and returns the previous value.
func (p *Page) RefcountDec() uint64 {
	old := p.refcount.FetchSub(1)
	debugAssert(old > 0, "taskslab: page refcount underflow")
	return old
}

// refcountLoad returns the current refcount, for tests and invariant
// checks.
func (p *Page) refcountLoad() uint64 {
	return p.refcount.Load()
}

// newPage allocates a 64-byte, 64-byte-aligned Page with refcount 1 and
// all status words zeroed.
//
// Go has no stdlib aligned-allocation primitive, so this over-allocates
// by pageAlign bytes and rounds the returned slice's backing address up
// to the next multiple of pageAlign: a struct padding field only
// guarantees layout, not the allocation's starting address.
func newPage() *Page {
	raw := make([]byte, pageSize+pageAlign)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	aligned := (base + pageAlign - 1) &^ (pageAlign - 1)
	p := (*Page)(unsafe.Pointer(aligned))
	// raw must stay reachable until the uintptr round-trip above has
	// produced the final pointer: the GC does not scan plain uintptrs, so
	// without this the backing array is (in principle) collectible while
	// "aligned" is still just a number. p itself is an interior pointer
	// into raw's backing array, and once alive as a typed pointer the
	// runtime keeps the whole array reachable for as long as p is.
	runtime.KeepAlive(raw)
	*p = Page{}
	p.refcount.Swap(1)
	return p
}
