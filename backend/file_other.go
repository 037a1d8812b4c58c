//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package backend

import (
	"os"
	"sync"
)

// File reads a terminal input file through a pump goroutine so Read
// never blocks, on platforms without non-blocking tty descriptors.
type File struct {
	f    *os.File
	mu   sync.Mutex
	data []byte
	err  error
	done chan struct{}
}

// NewFile wraps an open terminal input file.
func NewFile(f *os.File) (*File, error) {
	b := &File{f: f, done: make(chan struct{})}
	go b.pump()
	return b, nil
}

func (f *File) pump() {
	buf := make([]byte, 256)
	for {
		n, err := f.f.Read(buf)
		f.mu.Lock()
		if n > 0 {
			f.data = append(f.data, buf[:n]...)
		}
		if err != nil {
			f.err = err
			f.mu.Unlock()
			return
		}
		f.mu.Unlock()
		select {
		case <-f.done:
			return
		default:
		}
	}
}

// Read implements Backend.
func (f *File) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

// Fd implements Backend. Pump-based files are not pollable.
func (f *File) Fd() int { return -1 }

// Close stops the pump.
func (f *File) Close() error {
	close(f.done)
	return nil
}
