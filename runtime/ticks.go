package runtime

import (
	"container/heap"
	"time"
)

// tickRequest is a one-shot, deadline-ordered tick for a widget.
type tickRequest struct {
	widget Widget
	at     time.Time
}

type tickHeap []tickRequest

func (h tickHeap) Len() int            { return len(h) }
func (h tickHeap) Less(i, j int) bool  { return h[i].at.Before(h[j].at) }
func (h tickHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *tickHeap) Push(x any)         { *h = append(*h, x.(tickRequest)) }
func (h *tickHeap) Pop() any {
	old := *h
	n := len(old)
	req := old[n-1]
	old[n-1] = tickRequest{}
	*h = old[:n-1]
	return req
}

// tickScheduler holds pending tick requests in deadline order. The
// loop goroutine owns it exclusively.
type tickScheduler struct {
	h tickHeap
}

func (s *tickScheduler) schedule(w Widget, at time.Time) {
	heap.Push(&s.h, tickRequest{widget: w, at: at})
}

// popDue removes and returns the earliest request whose deadline has
// passed.
func (s *tickScheduler) popDue(now time.Time) (tickRequest, bool) {
	if len(s.h) == 0 || s.h[0].at.After(now) {
		return tickRequest{}, false
	}
	return heap.Pop(&s.h).(tickRequest), true
}

func (s *tickScheduler) pending() int { return len(s.h) }
