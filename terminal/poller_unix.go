//go:build linux || darwin || freebsd || netbsd || openbsd

package terminal

import (
	"time"

	"golang.org/x/sys/unix"
)

// Poller waits for input readiness so the event loop can sleep without
// missing keystrokes. It only decides when to read; parsing and
// dispatch are identical with or without it.
type Poller interface {
	// RegisterRead adds a descriptor to the watch set.
	RegisterRead(fd int)
	// PollTimeout blocks until a registered descriptor is readable or
	// the timeout elapses. It returns true if input is ready.
	PollTimeout(timeout time.Duration) (bool, error)
	// Deregister removes a descriptor from the watch set.
	Deregister(fd int)
}

// unixPoller implements Poller with poll(2).
type unixPoller struct {
	fds []unix.PollFd
}

// NewPoller returns the platform poller.
func NewPoller() Poller {
	return &unixPoller{}
}

func (p *unixPoller) RegisterRead(fd int) {
	for _, pfd := range p.fds {
		if int(pfd.Fd) == fd {
			return
		}
	}
	p.fds = append(p.fds, unix.PollFd{Fd: int32(fd), Events: unix.POLLIN})
}

func (p *unixPoller) PollTimeout(timeout time.Duration) (bool, error) {
	if len(p.fds) == 0 {
		if timeout > 0 {
			time.Sleep(timeout)
		}
		return false, nil
	}
	ms := int(timeout / time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	n, err := unix.Poll(p.fds, ms)
	if err == unix.EINTR {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *unixPoller) Deregister(fd int) {
	for i, pfd := range p.fds {
		if int(pfd.Fd) == fd {
			p.fds = append(p.fds[:i], p.fds[i+1:]...)
			return
		}
	}
}
