package runtime

import (
	"errors"
	"sync"
	"time"

	"github.com/odvcencio/fluffyui/clock"
)

// ErrQueueFull is returned by Push when the queue is at capacity and
// every queued event is critical, so nothing can be evicted.
var ErrQueueFull = errors.New("event queue full")

// DefaultQueueCapacity bounds the total queued event count unless
// overridden.
const DefaultQueueCapacity = 1024

// QueuedEvent is a message with its assigned priority and enqueue
// timestamp. The queue owns the entry between push and pop.
type QueuedEvent struct {
	Msg      Message
	Priority Priority
	At       time.Time
}

// QueueStats is an observability snapshot of the queue.
type QueueStats struct {
	Queued   int
	Dropped  uint64
	Peak     int
	ShutDown bool
}

// Queue is a thread-safe multi-lane FIFO keyed by priority. One mutex
// and one condition variable guard it end to end; producers and the
// consuming loop may run on different goroutines.
type Queue struct {
	clk clock.Clock

	mu       sync.Mutex
	cond     *sync.Cond
	lanes    [numPriorities][]QueuedEvent
	size     int
	capacity int
	dropped  uint64
	peak     int
	down     bool
}

// NewQueue creates a queue with the given capacity. Zero or negative
// capacity selects DefaultQueueCapacity.
func NewQueue(clk clock.Clock, capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	q := &Queue{clk: clk, capacity: capacity}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push inserts msg at the tail of the lane for prio. When the queue is
// full it evicts the globally oldest non-critical event and counts the
// drop; if every queued event is critical the push fails with
// ErrQueueFull. After shutdown pushes are silently dropped.
func (q *Queue) Push(msg Message, prio Priority) error {
	if prio > PriorityIdle {
		prio = PriorityIdle
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.down {
		return nil
	}
	if q.size >= q.capacity {
		if !q.evictOldestLocked() {
			return ErrQueueFull
		}
		q.dropped++
	}

	q.lanes[prio] = append(q.lanes[prio], QueuedEvent{
		Msg:      msg,
		Priority: prio,
		At:       q.clk.Now(),
	})
	q.size++
	if q.size > q.peak {
		q.peak = q.size
	}
	q.cond.Broadcast()
	return nil
}

// PushAuto inserts msg with its derived priority.
func (q *Queue) PushAuto(msg Message) error {
	return q.Push(msg, PriorityFor(msg))
}

// Pop removes and returns the head of the highest-priority non-empty
// lane. Pops keep draining after shutdown.
func (q *Queue) Pop() (QueuedEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Wait blocks until an event is available, the timeout elapses, or the
// queue shuts down with an empty backlog. A non-positive timeout waits
// indefinitely.
func (q *Queue) Wait(timeout time.Duration) (QueuedEvent, bool) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
		wake := time.AfterFunc(timeout, func() {
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		})
		defer wake.Stop()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if ev, ok := q.popLocked(); ok {
			return ev, true
		}
		if q.down {
			return QueuedEvent{}, false
		}
		if timeout > 0 && !time.Now().Before(deadline) {
			return QueuedEvent{}, false
		}
		q.cond.Wait()
	}
}

// Shutdown wakes all waiters permanently. Idempotent; the backlog
// remains poppable so in-flight work can finish.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.down {
		return
	}
	q.down = true
	q.cond.Broadcast()
}

// IsShutdown reports whether Shutdown has been called.
func (q *Queue) IsShutdown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.down
}

// Len returns the total queued event count.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Stats returns an observability snapshot.
func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Queued:   q.size,
		Dropped:  q.dropped,
		Peak:     q.peak,
		ShutDown: q.down,
	}
}

func (q *Queue) popLocked() (QueuedEvent, bool) {
	for p := 0; p < numPriorities; p++ {
		lane := q.lanes[p]
		if len(lane) == 0 {
			continue
		}
		ev := lane[0]
		// Clear the slot so the queue does not pin the message.
		lane[0] = QueuedEvent{}
		q.lanes[p] = lane[1:]
		if len(q.lanes[p]) == 0 {
			q.lanes[p] = nil
		}
		q.size--
		return ev, true
	}
	return QueuedEvent{}, false
}

// evictOldestLocked removes the globally oldest non-critical event.
// It reports false when every queued event is critical.
func (q *Queue) evictOldestLocked() bool {
	// Within a lane entries are FIFO by enqueue time, so each lane's
	// oldest event is its head.
	lane := -1
	var oldest time.Time
	for p := int(PriorityHigh); p < numPriorities; p++ {
		if len(q.lanes[p]) == 0 {
			continue
		}
		if lane == -1 || q.lanes[p][0].At.Before(oldest) {
			lane = p
			oldest = q.lanes[p][0].At
		}
	}
	if lane == -1 {
		return false
	}
	q.lanes[lane][0] = QueuedEvent{}
	q.lanes[lane] = q.lanes[lane][1:]
	q.size--
	return true
}
