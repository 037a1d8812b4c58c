// Package backend abstracts the raw byte source feeding the input
// parser. Implementations must be non-blocking: when no input is
// available, Read returns (0, nil) rather than waiting or erroring.
package backend

import (
	"io"
	"sync"
)

// Backend supplies raw terminal bytes.
type Backend interface {
	// Read fills p with available bytes without blocking. A zero count
	// with nil error means no input is pending right now.
	Read(p []byte) (int, error)
	// Fd returns the underlying descriptor for readiness polling, or
	// -1 when the backend is not pollable.
	Fd() int
	Close() error
}

// Buffer is an in-memory backend for tests and scripted input. Feed is
// safe to call from any goroutine.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

// NewBuffer creates an empty scripted backend.
func NewBuffer() *Buffer { return &Buffer{} }

// Feed appends bytes for subsequent reads.
func (b *Buffer) Feed(p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
}

// FeedString appends a string of bytes.
func (b *Buffer) FeedString(s string) { b.Feed([]byte(s)) }

// Read implements Backend.
func (b *Buffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data) == 0 {
		if b.closed {
			return 0, io.EOF
		}
		return 0, nil
	}
	n := copy(p, b.data)
	b.data = b.data[n:]
	return n, nil
}

// Fd implements Backend.
func (b *Buffer) Fd() int { return -1 }

// Close implements Backend. Reads after close drain remaining bytes
// and then report io.EOF.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
