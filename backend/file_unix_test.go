//go:build linux || darwin || freebsd || netbsd || openbsd

package backend

import (
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

// readAll polls the non-blocking backend until it has want bytes or the
// deadline passes.
func readAll(t *testing.T, f *File, want int) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	out := make([]byte, 0, want)
	buf := make([]byte, 64)
	for len(out) < want {
		n, err := f.Read(buf)
		require.NoError(t, err)
		out = append(out, buf[:n]...)
		if n == 0 {
			require.True(t, time.Now().Before(deadline), "timed out with %d/%d bytes", len(out), want)
			time.Sleep(time.Millisecond)
		}
	}
	return out
}

func TestFile_NonBlockingPTYRead(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	// Raw mode, or canonical line buffering holds the bytes back.
	oldState, err := term.MakeRaw(int(slave.Fd()))
	require.NoError(t, err)
	defer term.Restore(int(slave.Fd()), oldState)

	f, err := NewFile(slave)
	require.NoError(t, err)
	defer f.Close()

	assert.GreaterOrEqual(t, f.Fd(), 0)

	// Nothing written yet: the read must not block.
	n, err := f.Read(make([]byte, 16))
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = master.WriteString("ab\x1b[A")
	require.NoError(t, err)

	got := readAll(t, f, 5)
	assert.Equal(t, "ab\x1b[A", string(got))
}
