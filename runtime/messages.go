// Package runtime is the event core of fluffyui: the message and
// command model, the priority event queue, the burst coalescer, and
// the frame-paced loop that dispatches events to a widget tree.
package runtime

import (
	"time"

	"github.com/odvcencio/fluffyui/terminal"
)

// Message represents an event flowing into the UI. Messages come from
// terminal input, resize notifications, timers, or background
// goroutines. The set is sealed; dispatch and priority derivation
// switch over it exhaustively.
type Message interface {
	isMessage()
}

// InitMsg is delivered once before any other event when the loop
// starts.
type InitMsg struct{}

func (InitMsg) isMessage() {}

// KeyMsg is a keyboard input event.
type KeyMsg struct {
	Key  terminal.Key
	Rune rune
	Mods terminal.Modifier
}

func (KeyMsg) isMessage() {}

// MouseMsg is a mouse input event. Coordinates are zero-based cells.
type MouseMsg struct {
	X, Y   int
	Button terminal.MouseButton
	Press  bool
	Mods   terminal.Modifier
}

func (MouseMsg) isMessage() {}

// IsMove reports pointer motion with no button involvement.
func (m MouseMsg) IsMove() bool {
	return m.Button == terminal.MouseNone && !m.Press
}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// FocusMsg indicates the terminal gained or lost focus.
type FocusMsg struct {
	Gained bool
}

func (FocusMsg) isMessage() {}

// SuspendMsg indicates the application is being suspended.
type SuspendMsg struct{}

func (SuspendMsg) isMessage() {}

// ResumeMsg indicates the application resumed from suspension.
type ResumeMsg struct{}

func (ResumeMsg) isMessage() {}

// TickMsg is delivered when a scheduled tick deadline passes. Widget
// identifies the requester from RequestTick; dispatch still goes
// through the root, which can route on it. Loop-internal ticks leave
// it nil.
type TickMsg struct {
	Time   time.Time
	Widget Widget
}

func (TickMsg) isMessage() {}

// PasteMsg carries text from bracketed paste. The text buffer belongs
// to the receiver once dispatched.
type PasteMsg struct {
	Text string
}

func (PasteMsg) isMessage() {}

// CustomMsg wraps host-application messages so external producers can
// inject domain events through the same queue.
type CustomMsg struct {
	Value any
}

func (CustomMsg) isMessage() {}

// fromTerminalEvent converts a decoded terminal event into a Message.
func fromTerminalEvent(ev terminal.Event) Message {
	switch ev.Type {
	case terminal.EventKey:
		return KeyMsg{Key: ev.Key, Rune: ev.Rune, Mods: ev.Mods}
	case terminal.EventMouse:
		return MouseMsg{
			X:      ev.Mouse.X,
			Y:      ev.Mouse.Y,
			Button: ev.Mouse.Button,
			Press:  ev.Mouse.Press,
			Mods:   ev.Mouse.Mods,
		}
	case terminal.EventPaste:
		return PasteMsg{Text: ev.Paste}
	}
	return nil
}
