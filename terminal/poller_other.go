//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package terminal

import "time"

// Poller waits for input readiness so the event loop can sleep without
// missing keystrokes. It only decides when to read; parsing and
// dispatch are identical with or without it.
type Poller interface {
	RegisterRead(fd int)
	PollTimeout(timeout time.Duration) (bool, error)
	Deregister(fd int)
}

// sleepPoller is the fallback for platforms without poll(2): it just
// sleeps, and the loop reads opportunistically each frame.
type sleepPoller struct{}

// NewPoller returns the platform poller.
func NewPoller() Poller { return sleepPoller{} }

func (sleepPoller) RegisterRead(int) {}

func (sleepPoller) PollTimeout(timeout time.Duration) (bool, error) {
	if timeout > 0 {
		time.Sleep(timeout)
	}
	return false, nil
}

func (sleepPoller) Deregister(int) {}
