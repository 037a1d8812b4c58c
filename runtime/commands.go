package runtime

import (
	"strings"
	"time"
)

// Command represents an action emitted by widgets back to the loop.
// The loop interprets tick scheduling, redraw, and focus requests
// locally; everything else is forwarded to the host application via
// PopCommands.
type Command interface {
	Command()
}

// RequestTick schedules a one-shot tick at the given deadline. The
// resulting TickMsg carries Widget so the root can route it back to
// the requester.
type RequestTick struct {
	Widget Widget
	At     time.Time
}

func (RequestTick) Command() {}

// SetMouseShape asks the host to change the pointer shape.
type SetMouseShape struct {
	Shape string
}

func (SetMouseShape) Command() {}

// RequestFocus asks that focus move to the given widget. The loop
// records the request; focus policy belongs to the host.
type RequestFocus struct {
	Widget Widget
}

func (RequestFocus) Command() {}

// CopyToClipboard asks the host to place text on the system clipboard.
// Construct with NewCopyToClipboard so the text is detached from any
// widget-owned buffer.
type CopyToClipboard struct {
	Text string
}

func (CopyToClipboard) Command() {}

// NewCopyToClipboard duplicates text into a fresh buffer.
func NewCopyToClipboard(text string) CopyToClipboard {
	return CopyToClipboard{Text: strings.Clone(text)}
}

// SetTitle asks the host to set the terminal window title.
type SetTitle struct {
	Title string
}

func (SetTitle) Command() {}

// NewSetTitle duplicates title into a fresh buffer.
func NewSetTitle(title string) SetTitle {
	return SetTitle{Title: strings.Clone(title)}
}

// QueueRefresh requests a full redraw on the next frame.
type QueueRefresh struct{}

func (QueueRefresh) Command() {}

// Redraw requests a render pass on the next frame.
type Redraw struct{}

func (Redraw) Command() {}

// Notify asks the host to show a notification.
type Notify struct {
	Title string
	Body  string
}

func (Notify) Command() {}

// NewNotify duplicates title and body into fresh buffers.
func NewNotify(title, body string) Notify {
	return Notify{Title: strings.Clone(title), Body: strings.Clone(body)}
}

// QueryColor asks the host to report a terminal color.
type QueryColor struct {
	Index int
}

func (QueryColor) Command() {}
