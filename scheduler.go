package taskslab

// schedulerMetrics holds the lightweight counters enabled by
// WithMetrics(true). Unexported: reached only through Scheduler.Metrics,
// which returns a value copy so callers cannot mutate scheduler-internal
// state.
type schedulerMetrics struct {
	pagesAllocated int
	slotsReclaimed int
	pollSweeps     int
}

// Metrics is a point-in-time snapshot of a Scheduler's counters. Zero
// value if the scheduler was not created with WithMetrics(true).
type Metrics struct {
	PagesAllocated int
	SlotsReclaimed int
	PollSweeps     int
}

// Scheduler owns a Slab of erased Tasks plus a growing list of PageRefs,
// and drives the insert/take/poll lifecycle described in the package
// doc. It is not safe for concurrent use from more than one goroutine:
// the whole point of the design is that it needs no synchronization
// because exactly one goroutine ever touches it at a time (see Poll's
// re-entrancy contract for what "touches it" permits).
type Scheduler struct {
	slab    *Slab[Task]
	pages   []PageRef
	logger  Logger
	metrics *schedulerMetrics
}

// New constructs an empty Scheduler.
func New(opts ...Option) *Scheduler {
	cfg := resolveOptions(opts)
	s := &Scheduler{
		slab:   NewSlab[Task](),
		logger: cfg.logger,
	}
	if cfg.metricsEnabled {
		s.metrics = &schedulerMetrics{}
	}
	for i := 0; i < cfg.initialPages; i++ {
		s.pages = append(s.pages, newPageRef())
		if s.metrics != nil {
			s.metrics.pagesAllocated++
		}
	}
	return s
}

// Metrics returns a snapshot of the scheduler's counters. Always returns
// the zero Metrics if the scheduler was built without WithMetrics(true).
func (s *Scheduler) Metrics() Metrics {
	if s.metrics == nil {
		return Metrics{}
	}
	return Metrics{
		PagesAllocated: s.metrics.pagesAllocated,
		SlotsReclaimed: s.metrics.slotsReclaimed,
		PollSweeps:     s.metrics.pollSweeps,
	}
}

// Len returns the number of tasks currently occupying a slot (inserted,
// not yet taken or reclaimed).
func (s *Scheduler) Len() int {
	return s.slab.Len()
}

// PageCount returns the number of pages the scheduler has allocated so
// far. Pages are never freed for the scheduler's lifetime (see package
// doc), so this only ever grows.
func (s *Scheduler) PageCount() int {
	return len(s.pages)
}

// growPages appends fresh pages until key is coverable, mirroring the
// "while key >= pages.len()*64" loop from the insert algorithm.
func (s *Scheduler) growPages(key uint64) {
	for key >= uint64(len(s.pages))*bitsPerPage {
		s.pages = append(s.pages, newPageRef())
		if s.metrics != nil {
			s.metrics.pagesAllocated++
		}
		logPageGrown(s.logger, len(s.pages))
	}
}

func pageIndexOf(key uint64) uint64 { return key / bitsPerPage }
func subIndexOf(key uint64) int     { return int(key % bitsPerPage) }

// Insert places task in the slab, allocates pages as needed, marks it to
// run on the next Poll, and returns a Handle the caller uses to observe
// completion or cancel it.
func (s *Scheduler) Insert(task Task) *Handle {
	key := s.slab.Insert(task)
	s.growPages(key)
	pi := pageIndexOf(key)
	i := subIndexOf(key)
	s.pages[pi].Page().Initialize(i)
	return newHandle(s, key, s.pages[pi].Clone())
}

// FromRawHandle reconstitutes a Handle from a previously-extracted raw
// key (see Handle.IntoRaw), succeeding only if that key still names an
// occupied slot.
func (s *Scheduler) FromRawHandle(key uint64) (*Handle, bool) {
	if _, ok := s.slab.Get(key); !ok {
		return nil, false
	}
	pi := pageIndexOf(key)
	return newHandle(s, key, s.pages[pi].Clone()), true
}

// Take consumes handle and extracts its task by value. It is an error to
// Take a handle whose slot has already had its dropped bit set, or one
// that was already consumed (by a prior Take or IntoRaw).
func (s *Scheduler) Take(h *Handle) (Task, error) {
	if h.consumed {
		return nil, ErrHandleConsumed
	}
	i := subIndexOf(h.key)
	page := h.page.Page()
	if page.WasDropped(i) {
		debugAssert(false, "taskslab: take on a handle whose dropped bit is set")
		return nil, ErrHandleDropped
	}
	page.Clear(i)
	task, ok := s.slab.RemoveUnpin(h.key)
	if !ok {
		debugAssert(false, "taskslab: take on a handle naming an unoccupied slot")
		return nil, ErrUnknownKey
	}
	h.consume()
	return task, nil
}

// Poll runs one sweep over every page: for each bit set in a page's
// notified bitmap (after masking out completed/dropped, per
// Page.TakeNotified), it polls the corresponding task; for each bit set
// in the dropped bitmap, it reclaims the slab slot.
//
// Re-entrancy: Poll, Insert, Take, and FromRawHandle may all be called
// from inside a Task's Poll method. The scheduler holds no lock across
// the call into task.Poll (there is nothing to hold: the scheduler's state
// has no synchronization primitives at all, by design — see WordCell), so
// nested calls are ordinary recursive Go calls, not a re-entrant-lock
// dance. A page appended by a nested Insert is visited later in the same
// sweep if its index has not yet been reached; if its index was already
// passed, it is picked up on the next Poll. Both outcomes are valid.
func (s *Scheduler) Poll() {
	if s.metrics != nil {
		s.metrics.pollSweeps++
	}
	for p := 0; p < len(s.pages); p++ {
		pageRef := s.pages[p]
		page := pageRef.Page()
		n := page.TakeNotified()
		d := page.TakeDropped()

		notified := newBitIter(n)
		for {
			i, ok := notified.next()
			if !ok {
				break
			}
			key := uint64(p)*bitsPerPage + uint64(i)
			taskPtr, ok := s.slab.GetPinned(key)
			if !ok {
				continue
			}
			notifier := pageRef.ToNotifier(i)
			result := (*taskPtr).Poll(notifier)
			notifier.Close()
			if result == Ready {
				page.MarkCompleted(i)
			}
		}

		dropped := newBitIter(d)
		for {
			i, ok := dropped.next()
			if !ok {
				break
			}
			key := uint64(p)*bitsPerPage + uint64(i)
			s.slab.Remove(key)
			page.Clear(i)
			if s.metrics != nil {
				s.metrics.slotsReclaimed++
			}
			logSlotReclaimed(s.logger, key)
		}
	}
}
