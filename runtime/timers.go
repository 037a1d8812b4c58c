package runtime

import (
	"fmt"
	"time"
)

// TimerFunc runs when a timer fires. A non-nil error propagates out of
// the loop; timer callbacks are host code, and failures there indicate
// programming errors rather than recoverable conditions.
type TimerFunc func(now time.Time) error

type timer struct {
	name      string
	interval  time.Duration
	next      time.Time
	recurring bool
	fn        TimerFunc
	active    bool
}

// timerSet holds named timers. The loop goroutine owns it exclusively;
// callbacks may start or stop timers reentrantly during a scan.
type timerSet struct {
	timers map[string]*timer
}

func newTimerSet() *timerSet {
	return &timerSet{timers: make(map[string]*timer)}
}

// start registers (or replaces) a named timer.
func (ts *timerSet) start(name string, interval time.Duration, recurring bool, now time.Time, fn TimerFunc) {
	ts.timers[name] = &timer{
		name:      name,
		interval:  interval,
		next:      now.Add(interval),
		recurring: recurring,
		fn:        fn,
		active:    true,
	}
}

// stop deactivates a timer. A timer stopped from within its own
// callback is swept before the next scan.
func (ts *timerSet) stop(name string) {
	if t, ok := ts.timers[name]; ok {
		t.active = false
	}
}

// scan fires every due active timer. Due timers are collected first so
// callbacks can mutate the set safely.
func (ts *timerSet) scan(now time.Time) error {
	var due []*timer
	for _, t := range ts.timers {
		if t.active && !t.next.After(now) {
			due = append(due, t)
		}
	}
	for _, t := range due {
		if !t.active {
			continue // disabled by an earlier callback this scan
		}
		if t.recurring {
			t.next = now.Add(t.interval)
		} else {
			t.active = false
		}
		if err := t.fn(now); err != nil {
			ts.sweep()
			return fmt.Errorf("timer %q: %w", t.name, err)
		}
	}
	ts.sweep()
	return nil
}

// sweep removes deactivated timers.
func (ts *timerSet) sweep() {
	for name, t := range ts.timers {
		if !t.active {
			delete(ts.timers, name)
		}
	}
}

// active counts live timers.
func (ts *timerSet) active() int {
	n := 0
	for _, t := range ts.timers {
		if t.active {
			n++
		}
	}
	return n
}
