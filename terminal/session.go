package terminal

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Session owns the terminal mode for the lifetime of an application:
// raw input, the alternate screen, mouse reporting, and bracketed
// paste. It also executes the outward-facing commands the runtime
// forwards (title, clipboard, notifications) since those are plain
// escape writes on the same output.
type Session struct {
	in       *os.File
	out      *termenv.Output
	oldState *term.State
	started  bool
}

// NewSession creates a session over the given tty pair. Passing nil
// uses stdin/stdout.
func NewSession(in, out *os.File) *Session {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Session{in: in, out: termenv.NewOutput(out)}
}

// Start switches the terminal into raw mode and enables the alternate
// screen, mouse reporting, and bracketed paste.
func (s *Session) Start() error {
	if s.started {
		return nil
	}
	state, err := term.MakeRaw(int(s.in.Fd()))
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	s.oldState = state
	s.out.AltScreen()
	s.out.HideCursor()
	s.out.EnableMouseAllMotion()
	s.out.EnableBracketedPaste()
	s.started = true
	return nil
}

// Stop restores the terminal. Safe to call more than once.
func (s *Session) Stop() error {
	if !s.started {
		return nil
	}
	s.out.DisableBracketedPaste()
	s.out.DisableMouseAllMotion()
	s.out.ShowCursor()
	s.out.ExitAltScreen()
	s.started = false
	if s.oldState != nil {
		if err := term.Restore(int(s.in.Fd()), s.oldState); err != nil {
			return fmt.Errorf("restore terminal: %w", err)
		}
	}
	return nil
}

// Size returns the terminal dimensions in cells.
func (s *Session) Size() (width, height int, err error) {
	return term.GetSize(int(s.in.Fd()))
}

// Input exposes the input file for the byte-source backend.
func (s *Session) Input() *os.File { return s.in }

// SetTitle sets the terminal window title.
func (s *Session) SetTitle(title string) {
	s.out.SetWindowTitle(title)
}

// CopyToClipboard writes text to the system clipboard via OSC 52.
func (s *Session) CopyToClipboard(text string) {
	s.out.Copy(text)
}

// Notify emits a desktop notification via OSC 777 where supported.
func (s *Session) Notify(title, body string) {
	s.out.Notify(title, body)
}
