// Command examplehost demonstrates driving a taskslab.Scheduler from an
// idle-park host loop: tasks register timer-based wakes through
// timerqueue, and an extwake.Signal lets another goroutine interrupt the
// park wait early.
package main

import (
	"fmt"
	"log"
	"time"

	taskslab "github.com/joeycumines/go-taskslab"
	"github.com/joeycumines/go-taskslab/extwake"
	"github.com/joeycumines/go-taskslab/timerqueue"
)

// countdownTask polls Pending until n reaches zero, re-arming a timer
// wake each time through timerqueue, then reports Ready.
type countdownTask struct {
	name  string
	n     int
	queue *timerqueue.Queue
}

func (t *countdownTask) Poll(notifier taskslab.Notifier) taskslab.PollResult {
	if t.n <= 0 {
		fmt.Printf("%s: done\n", t.name)
		return taskslab.Ready
	}
	fmt.Printf("%s: tick %d\n", t.name, t.n)
	t.n--
	t.queue.Schedule(time.Now().Add(20*time.Millisecond), notifier.Clone())
	return taskslab.Pending
}

func main() {
	logger := taskslab.NewDefaultLogger(taskslab.LevelInfo)
	sched := taskslab.New(
		taskslab.WithLogger(logger),
		taskslab.WithMetrics(true),
	)
	queue := timerqueue.New()
	wake, err := extwake.New()
	if err != nil {
		log.Fatalf("examplehost: creating wake signal: %v", err)
	}
	defer wake.Close()

	h1 := sched.Insert(&countdownTask{name: "a", n: 3, queue: queue})
	h2 := sched.Insert(&countdownTask{name: "b", n: 1, queue: queue})

	for !h1.HasCompleted() || !h2.HasCompleted() {
		sched.Poll()
		if h1.HasCompleted() && h2.HasCompleted() {
			break
		}
		if when, ok := queue.Peek(); ok {
			delay := time.Until(when)
			if delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-timer.C:
				case <-wake.C():
					timer.Stop()
				}
			}
		}
		queue.DrainDue(time.Now())
	}

	m := sched.Metrics()
	fmt.Printf("pages=%d reclaimed=%d sweeps=%d\n", m.PagesAllocated, m.SlotsReclaimed, m.PollSweeps)

	h1.Close()
	h2.Close()
	sched.Poll()
}
