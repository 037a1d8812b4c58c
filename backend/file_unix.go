//go:build linux || darwin || freebsd || netbsd || openbsd

package backend

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File reads a tty descriptor in non-blocking mode.
type File struct {
	f  *os.File
	fd int
}

// NewFile wraps an open terminal input file and switches its
// descriptor to non-blocking mode.
func NewFile(f *os.File) (*File, error) {
	fd := int(f.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, fmt.Errorf("set nonblock: %w", err)
	}
	return &File{f: f, fd: fd}, nil
}

// Read implements Backend. EAGAIN maps to (0, nil).
func (f *File) Read(p []byte) (int, error) {
	n, err := unix.Read(f.fd, p)
	if n < 0 {
		n = 0
	}
	if err == unix.EAGAIN || err == unix.EINTR {
		return 0, nil
	}
	if err != nil {
		return n, fmt.Errorf("read input: %w", err)
	}
	return n, nil
}

// Fd implements Backend.
func (f *File) Fd() int { return f.fd }

// Close restores blocking mode and leaves the file open; the terminal
// session owns the file itself.
func (f *File) Close() error {
	return unix.SetNonblock(f.fd, false)
}
