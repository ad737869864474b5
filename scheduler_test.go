package taskslab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type countingTask struct {
	count *int
}

func (t *countingTask) Poll(Notifier) PollResult {
	*t.count++
	return Ready
}

func TestScheduler_PollCompletesOnFirstReadyTask(t *testing.T) {
	sched := New()
	count := 0
	h := sched.Insert(&countingTask{count: &count})

	sched.Poll()
	require.Equal(t, 1, count)
	require.True(t, h.HasCompleted())

	sched.Poll() // second sweep must not re-invoke
	require.Equal(t, 1, count)
}

type registerThenReadyTask struct {
	stored *Notifier
	polled int
}

func (t *registerThenReadyTask) Poll(n Notifier) PollResult {
	t.polled++
	if t.polled == 1 {
		clone := n.Clone()
		*t.stored = clone
		return Pending
	}
	return Ready
}

func TestScheduler_PollResumesTaskAfterExternalWake(t *testing.T) {
	sched := New()
	var stored Notifier
	task := &registerThenReadyTask{stored: &stored}
	h := sched.Insert(task)

	sched.Poll() // first poll: registers notifier, returns Pending
	require.Equal(t, 1, task.polled)
	require.False(t, h.HasCompleted())

	stored.WakeByRef()
	sched.Poll()
	require.Equal(t, 2, task.polled)
	require.True(t, h.HasCompleted())

	stored.Close()
}

type neverCompleteTask struct{}

func (t *neverCompleteTask) Poll(Notifier) PollResult {
	return Pending
}

func TestScheduler_CloseHandleReclaimsSlotBeforeCompletion(t *testing.T) {
	sched := New()
	task := &neverCompleteTask{}
	h := sched.Insert(task)

	sched.Poll()
	require.Equal(t, 1, sched.Len())

	h.Close()
	sched.Poll()

	require.Equal(t, 0, sched.Len())
	_, ok := sched.FromRawHandle(0)
	require.False(t, ok)
}

func TestScheduler_InsertAcrossPageBoundaryCompletesAllTasks(t *testing.T) {
	sched := New()
	var handles []*Handle
	count := 0
	for i := 0; i < 65; i++ {
		handles = append(handles, sched.Insert(&countingTask{count: &count}))
	}
	require.Equal(t, 2, sched.PageCount())

	sched.Poll()
	require.Equal(t, 65, count)
	for _, h := range handles {
		require.True(t, h.HasCompleted())
	}

	// the 65th task (index 64) lives at page=1, sub=0.
	lastKey, err := handles[64].IntoRaw()
	require.NoError(t, err)
	require.Equal(t, uint64(64), lastKey)
	require.Equal(t, uint64(1), pageIndexOf(lastKey))
	require.Equal(t, 0, subIndexOf(lastKey))
}

func TestScheduler_SpuriousWakeAfterCompletionIsIgnored(t *testing.T) {
	sched := New()
	count := 0
	h := sched.Insert(&countingTask{count: &count})

	sched.Poll()
	require.Equal(t, 1, count)

	raw, err := h.IntoRaw()
	require.NoError(t, err)
	h2, ok := sched.FromRawHandle(raw)
	require.True(t, ok)
	notifier := h2.Notifier()

	notifier.WakeByRef()
	sched.Poll()
	require.Equal(t, 1, count, "completed task must not be re-polled on a spurious wake")

	notifier.Close()
}

type reentrantInsertTask struct {
	sched   *Scheduler
	spawned *bool
}

func (t *reentrantInsertTask) Poll(Notifier) PollResult {
	count := 0
	t.sched.Insert(&countingTask{count: &count})
	*t.spawned = true
	return Ready
}

func TestScheduler_InsertFromWithinPollIsSafe(t *testing.T) {
	sched := New()
	spawned := false
	hA := sched.Insert(&reentrantInsertTask{sched: sched, spawned: &spawned})

	require.NotPanics(t, func() {
		sched.Poll()
	})

	require.True(t, hA.HasCompleted())
	require.True(t, spawned)
	// B may or may not have been polled in the same sweep; either way the
	// slab must now hold exactly one more occupied slot than before B's
	// insertion (A still occupies its slot until reclaimed or taken).
	require.Equal(t, 2, sched.Len())
}

func TestScheduler_FromRawHandleRecoversOriginalKey(t *testing.T) {
	sched := New()
	count := 0
	h := sched.Insert(&countingTask{count: &count})
	raw, err := h.IntoRaw()
	require.NoError(t, err)

	h2, ok := sched.FromRawHandle(raw)
	require.True(t, ok)
	require.Equal(t, raw, h2.key)
}

func TestScheduler_DropReclaimsSlotWithoutMarkingCompletedOrDropped(t *testing.T) {
	sched := New()
	h := sched.Insert(&neverCompleteTask{})
	sched.Poll()
	key := h.key

	h.Close()
	sched.Poll()

	_, ok := sched.slab.Get(key)
	require.False(t, ok)
	page := sched.pages[pageIndexOf(key)].Page()
	i := subIndexOf(key)
	require.False(t, page.HasCompleted(i))
	require.False(t, page.WasDropped(i))
}

func TestScheduler_ReclaimedKeyIsReusedByNextInsert(t *testing.T) {
	sched := New()
	h := sched.Insert(&neverCompleteTask{})
	sched.Poll()
	key := h.key
	h.Close()
	sched.Poll()

	count := 0
	h2 := sched.Insert(&countingTask{count: &count})
	require.Equal(t, key, h2.key)
}

// --- Take ---

func TestScheduler_Take(t *testing.T) {
	sched := New()
	count := 0
	h := sched.Insert(&countingTask{count: &count})

	task, err := sched.Take(h)
	require.NoError(t, err)
	require.NotNil(t, task)
	require.Equal(t, 0, sched.Len())

	_, err = sched.Take(h)
	require.ErrorIs(t, err, ErrHandleConsumed)
}

func TestScheduler_TakeDroppedHandleErrors(t *testing.T) {
	sched := New()
	raw, err := sched.Insert(&neverCompleteTask{}).IntoRaw()
	require.NoError(t, err)
	h, ok := sched.FromRawHandle(raw)
	require.True(t, ok)

	h.page.Page().MarkDropped(subIndexOf(raw))
	_, err = sched.Take(h)
	require.ErrorIs(t, err, ErrHandleDropped)
}

func TestScheduler_FromRawHandleUnknownKey(t *testing.T) {
	sched := New()
	_, ok := sched.FromRawHandle(12345)
	require.False(t, ok)
}

func TestScheduler_IntoRawThenConsumedErrors(t *testing.T) {
	sched := New()
	h := sched.Insert(&neverCompleteTask{})
	_, err := h.IntoRaw()
	require.NoError(t, err)
	_, err = h.IntoRaw()
	require.ErrorIs(t, err, ErrHandleConsumed)
}

func TestScheduler_MetricsDisabledByDefault(t *testing.T) {
	sched := New()
	require.Equal(t, Metrics{}, sched.Metrics())
}

func TestScheduler_MetricsTracksGrowthAndReclamation(t *testing.T) {
	sched := New(WithMetrics(true))
	var handles []*Handle
	for i := 0; i < 65; i++ {
		handles = append(handles, sched.Insert(&neverCompleteTask{}))
	}
	sched.Poll()
	for _, h := range handles {
		h.Close()
	}
	sched.Poll()

	m := sched.Metrics()
	require.Equal(t, 2, m.PagesAllocated)
	require.Equal(t, 65, m.SlotsReclaimed)
	require.Equal(t, 2, m.PollSweeps)
}

func TestScheduler_WithInitialPages(t *testing.T) {
	sched := New(WithInitialPages(3))
	require.Equal(t, 3, sched.PageCount())
}
