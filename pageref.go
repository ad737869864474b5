package taskslab

import "unsafe"

// PageRef is a reference-counted owning pointer to a Page. Cloning bumps
// the page's refcount; Close decrements it, and if the refcount was 1 the
// page's backing memory is released. PageRef itself carries no
// synchronization, matching the single-threaded model: it is only ever
// touched by the scheduler goroutine or by code the scheduler has handed
// it to synchronously.
type PageRef struct {
	p *Page
}

// newPageRef allocates a fresh Page and returns an owning PageRef with
// refcount 1.
func newPageRef() PageRef {
	return PageRef{p: newPage()}
}

// Page returns the referenced Page. All of Page's methods use interior
// mutability, so this is a read-only view in the sense that it never
// needs a pointer receiver to mutate PageRef itself.
func (r PageRef) Page() *Page {
	return r.p
}

// Clone increments the page's refcount and returns a new owning
// reference to the same Page.
func (r PageRef) Clone() PageRef {
	r.p.RefcountInc()
	return PageRef{p: r.p}
}

// Close decrements the page's refcount. If this was the last reference,
// the page's backing memory becomes eligible for garbage collection (Go
// has no explicit deallocation, so "released" means "no longer
// reachable"). The caller must not use the PageRef again after Close.
func (r PageRef) Close() {
	r.p.RefcountDec()
}

// ToNotifier produces a Notifier for sub-index i. This increments the
// page's refcount (the Notifier itself holds one unit) and returns a
// pointer-tagged handle to (page, i).
func (r PageRef) ToNotifier(i int) Notifier {
	r.p.RefcountInc()
	return notifierFor(r.p, i)
}

// Notifier is a one-pointer opaque handle distributed to event sources so
// they can wake a specific task. The pointer is exactly
// page_base + sub_index bytes: recovering (page_base, sub_index) is done
// by alignment arithmetic, not by carrying a second word.
type Notifier struct {
	ptr unsafe.Pointer
}

// notifierFor builds a Notifier for (p, i). The caller is responsible for
// having already incremented p's refcount for the unit this Notifier
// represents.
func notifierFor(p *Page, i int) Notifier {
	debugAssert(i >= 0 && i < bitsPerPage, "taskslab: sub-index out of range")
	base := uintptr(unsafe.Pointer(p))
	return Notifier{ptr: unsafe.Pointer(base + uintptr(i))}
}

// locate recovers (page, sub-index) from the tagged pointer.
//
// Let forward = align_up(p, pageAlign) - p.
//   - if forward == 0, the pointer is already page-aligned: base = p,
//     offset = 0.
//   - otherwise offset = pageAlign - forward, base = p - offset.
//
// The pointer is guaranteed (by construction: it only ever comes from
// ToNotifier) to fall within a live Page, so this recovery is total.
func (n Notifier) locate() (*Page, int) {
	p := uintptr(n.ptr)
	aligned := (p + pageAlign - 1) &^ (pageAlign - 1)
	forward := aligned - p
	var base uintptr
	var offset uintptr
	if forward == 0 {
		base = p
		offset = 0
	} else {
		offset = pageAlign - forward
		base = p - offset
	}
	return (*Page)(unsafe.Pointer(base)), int(offset)
}

// WakeByRef wakes the task this Notifier refers to without consuming the
// Notifier: it may be used again afterward.
func (n Notifier) WakeByRef() {
	page, i := n.locate()
	page.Notify(i)
}

// Wake has the same waking effect as WakeByRef, but consumes the
// Notifier: the refcount unit it held is released. The caller must not
// use n again afterward.
func (n Notifier) Wake() {
	page, i := n.locate()
	page.Notify(i)
	page.RefcountDec()
}

// Clone bumps the enclosing page's refcount and duplicates the pointer.
func (n Notifier) Clone() Notifier {
	page, _ := n.locate()
	page.RefcountInc()
	return n
}

// Close decrements the enclosing page's refcount without waking.
func (n Notifier) Close() {
	page, _ := n.locate()
	page.RefcountDec()
}
