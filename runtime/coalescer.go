package runtime

import (
	"time"

	"github.com/odvcencio/fluffyui/clock"
)

// Default debounce windows per coalesced class.
const (
	DefaultResizeDebounce = 50 * time.Millisecond
	DefaultMotionDebounce = 16 * time.Millisecond
)

// Coalescer merges bursts of same-kind events into a single delayed
// event per debounce window. Only resize and mouse motion (moves with
// no button press) are eligible; everything else passes straight
// through. The loop goroutine owns it exclusively.
type Coalescer struct {
	clk clock.Clock

	resizeWindow time.Duration
	motionWindow time.Duration

	resize    ResizeMsg
	resizeAt  time.Time
	hasResize bool

	motion    MouseMsg
	motionAt  time.Time
	hasMotion bool
}

// NewCoalescer creates a coalescer with per-class debounce windows.
// Non-positive windows select the defaults.
func NewCoalescer(clk clock.Clock, resizeWindow, motionWindow time.Duration) *Coalescer {
	if resizeWindow <= 0 {
		resizeWindow = DefaultResizeDebounce
	}
	if motionWindow <= 0 {
		motionWindow = DefaultMotionDebounce
	}
	return &Coalescer{clk: clk, resizeWindow: resizeWindow, motionWindow: motionWindow}
}

// Process examines msg and reports whether it should dispatch now.
// Absorbed events are remembered as the single pending representative
// of their class and surface later through FlushPending.
func (c *Coalescer) Process(msg Message) (Message, bool) {
	switch m := msg.(type) {
	case ResizeMsg:
		c.resize = m
		c.resizeAt = c.clk.Now()
		c.hasResize = true
		return nil, false
	case MouseMsg:
		if !m.IsMove() {
			return msg, true
		}
		if c.hasMotion && m.X == c.motion.X && m.Y == c.motion.Y {
			// Same coordinates: stale repeat, keep the original clock
			// so a stationary cursor cannot hold the event forever.
			return nil, false
		}
		c.motion = m
		c.motionAt = c.clk.Now()
		c.hasMotion = true
		return nil, false
	default:
		return msg, true
	}
}

// FlushPending appends any pending event whose debounce window has
// elapsed by now, clearing its slot.
func (c *Coalescer) FlushPending(now time.Time, out []Message) []Message {
	if c.hasResize && now.Sub(c.resizeAt) >= c.resizeWindow {
		out = append(out, c.resize)
		c.hasResize = false
	}
	if c.hasMotion && now.Sub(c.motionAt) >= c.motionWindow {
		out = append(out, c.motion)
		c.hasMotion = false
	}
	return out
}

// HasPending reports whether any class has a pending representative.
func (c *Coalescer) HasPending() bool {
	return c.hasResize || c.hasMotion
}
