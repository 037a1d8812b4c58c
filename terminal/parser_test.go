package terminal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/fluffyui/clock"
)

func newTestParser() (*Parser, *clock.Manual) {
	clk := clock.NewManual(time.Unix(0, 0))
	return NewParser(clk, 5*time.Millisecond), clk
}

func feed(p *Parser, input string) []Event {
	return p.FeedBytes([]byte(input), nil)
}

func TestParser_PrintableASCIIRoundTrip(t *testing.T) {
	p, _ := newTestParser()
	for b := byte(0x20); b <= 0x7e; b++ {
		events := p.Feed(b, nil)
		require.Len(t, events, 1, "byte 0x%02x", b)
		assert.Equal(t, KeyRune, events[0].Key, "byte 0x%02x", b)
		assert.Equal(t, rune(b), events[0].Rune, "byte 0x%02x", b)
		assert.Equal(t, ModNone, events[0].Mods)
	}
}

func TestParser_ControlBytes(t *testing.T) {
	p, _ := newTestParser()

	tests := []struct {
		b    byte
		key  Key
		mods Modifier
	}{
		{0x01, KeyCtrlA, ModCtrl},
		{0x03, KeyCtrlC, ModCtrl},
		{0x08, KeyBackspace, ModNone},
		{0x09, KeyTab, ModNone},
		{0x0a, KeyEnter, ModNone},
		{0x0d, KeyEnter, ModNone},
		{0x1a, KeyCtrlZ, ModCtrl},
		{0x7f, KeyBackspace, ModNone},
	}
	for _, tt := range tests {
		events := p.Feed(tt.b, nil)
		require.Len(t, events, 1, "byte 0x%02x", tt.b)
		assert.Equal(t, tt.key, events[0].Key, "byte 0x%02x", tt.b)
		assert.Equal(t, tt.mods, events[0].Mods, "byte 0x%02x", tt.b)
	}
}

func TestParser_EscapeDisambiguation(t *testing.T) {
	p, clk := newTestParser()

	// A lone ESC is held until the timeout elapses.
	events := p.Feed(0x1b, nil)
	assert.Empty(t, events)
	assert.True(t, p.HasPendingEscape())

	// Flushing before the timeout yields nothing.
	clk.Advance(2 * time.Millisecond)
	events = p.FlushPending(clk.Now(), nil)
	assert.Empty(t, events)
	assert.True(t, p.HasPendingEscape())

	// After the timeout, exactly one Escape.
	clk.Advance(4 * time.Millisecond)
	events = p.FlushPending(clk.Now(), nil)
	require.Len(t, events, 1)
	assert.Equal(t, KeyEscape, events[0].Key)
	assert.False(t, p.HasPendingEscape())

	// Idempotent after resolution.
	events = p.FlushPending(clk.Now(), nil)
	assert.Empty(t, events)
}

func TestParser_EscapeSequenceNotFragmented(t *testing.T) {
	p, _ := newTestParser()

	events := feed(p, "\x1b[A")
	require.Len(t, events, 1)
	assert.Equal(t, KeyUp, events[0].Key)
	assert.False(t, p.HasPendingEscape())
}

func TestParser_StandaloneEscapeThenByte(t *testing.T) {
	p, _ := newTestParser()

	// ESC followed by a non-introducer resolves immediately: Escape
	// plus the reprocessed byte. Sequences never nest.
	events := feed(p, "\x1bx")
	require.Len(t, events, 2)
	assert.Equal(t, KeyEscape, events[0].Key)
	assert.Equal(t, KeyRune, events[1].Key)
	assert.Equal(t, 'x', events[1].Rune)
}

func TestParser_CSIArrows(t *testing.T) {
	p, _ := newTestParser()

	tests := []struct {
		seq string
		key Key
	}{
		{"\x1b[A", KeyUp},
		{"\x1b[B", KeyDown},
		{"\x1b[C", KeyRight},
		{"\x1b[D", KeyLeft},
		{"\x1b[H", KeyHome},
		{"\x1b[F", KeyEnd},
	}
	for _, tt := range tests {
		events := feed(p, tt.seq)
		require.Len(t, events, 1, "seq %q", tt.seq)
		assert.Equal(t, tt.key, events[0].Key, "seq %q", tt.seq)
		assert.Equal(t, ModNone, events[0].Mods)
	}
}

func TestParser_CSIModifiers(t *testing.T) {
	p, _ := newTestParser()

	tests := []struct {
		seq  string
		key  Key
		mods Modifier
	}{
		{"\x1b[1;2A", KeyUp, ModShift},
		{"\x1b[1;3B", KeyDown, ModAlt},
		{"\x1b[1;5C", KeyRight, ModCtrl},
		{"\x1b[1;7D", KeyLeft, ModCtrl | ModAlt},
		{"\x1b[3;5~", KeyDelete, ModCtrl},
	}
	for _, tt := range tests {
		events := feed(p, tt.seq)
		require.Len(t, events, 1, "seq %q", tt.seq)
		assert.Equal(t, tt.key, events[0].Key, "seq %q", tt.seq)
		assert.Equal(t, tt.mods, events[0].Mods, "seq %q", tt.seq)
	}
}

func TestParser_CSITildeKeys(t *testing.T) {
	p, _ := newTestParser()

	tests := []struct {
		seq string
		key Key
	}{
		{"\x1b[2~", KeyInsert},
		{"\x1b[3~", KeyDelete},
		{"\x1b[5~", KeyPageUp},
		{"\x1b[6~", KeyPageDown},
		{"\x1b[1~", KeyHome},
		{"\x1b[4~", KeyEnd},
		{"\x1b[15~", KeyF5},
		{"\x1b[24~", KeyF12},
	}
	for _, tt := range tests {
		events := feed(p, tt.seq)
		require.Len(t, events, 1, "seq %q", tt.seq)
		assert.Equal(t, tt.key, events[0].Key, "seq %q", tt.seq)
	}
}

func TestParser_SS3Keys(t *testing.T) {
	p, _ := newTestParser()

	tests := []struct {
		seq string
		key Key
	}{
		{"\x1bOA", KeyUp},
		{"\x1bOD", KeyLeft},
		{"\x1bOH", KeyHome},
		{"\x1bOP", KeyF1},
		{"\x1bOS", KeyF4},
	}
	for _, tt := range tests {
		events := feed(p, tt.seq)
		require.Len(t, events, 1, "seq %q", tt.seq)
		assert.Equal(t, tt.key, events[0].Key, "seq %q", tt.seq)
	}
}

func TestParser_BackTab(t *testing.T) {
	p, _ := newTestParser()
	events := feed(p, "\x1b[Z")
	require.Len(t, events, 1)
	assert.Equal(t, KeyBackTab, events[0].Key)
	assert.Equal(t, ModShift, events[0].Mods)
}

func TestParser_UnknownSequencesConsumedSilently(t *testing.T) {
	p, _ := newTestParser()

	// Sequences the parser does not model must not surface events or
	// break the stream.
	events := feed(p, "\x1b[99~\x1b[?1049h\x1bOZ")
	assert.Empty(t, events)

	// Parser still works afterwards.
	events = feed(p, "a")
	require.Len(t, events, 1)
	assert.Equal(t, 'a', events[0].Rune)
}

func TestParser_CSIOverflowRecovers(t *testing.T) {
	p, _ := newTestParser()

	long := make([]byte, 0, maxCSIParams+3)
	long = append(long, 0x1b, '[')
	for i := 0; i < maxCSIParams+1; i++ {
		long = append(long, '1')
	}
	events := p.FeedBytes(long, nil)
	assert.Empty(t, events)

	events = feed(p, "b")
	require.Len(t, events, 1)
	assert.Equal(t, 'b', events[0].Rune)
}

func TestParser_SGRMouse(t *testing.T) {
	p, _ := newTestParser()

	tests := []struct {
		name string
		seq  string
		want Mouse
	}{
		{"left press", "\x1b[<0;10;5M", Mouse{Button: MouseLeft, X: 9, Y: 4, Press: true}},
		{"left release", "\x1b[<0;10;5m", Mouse{Button: MouseLeft, X: 9, Y: 4, Press: false}},
		{"plain move", "\x1b[<35;3;4M", Mouse{Button: MouseNone, X: 2, Y: 3, Press: false}},
		{"wheel up", "\x1b[<64;1;1M", Mouse{Button: MouseWheelUp, X: 0, Y: 0, Press: true}},
		{"wheel down", "\x1b[<65;1;1M", Mouse{Button: MouseWheelDown, X: 0, Y: 0, Press: true}},
		{"ctrl click", "\x1b[<16;2;2M", Mouse{Button: MouseLeft, X: 1, Y: 1, Press: true, Mods: ModCtrl}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := feed(p, tt.seq)
			require.Len(t, events, 1)
			require.Equal(t, EventMouse, events[0].Type)
			assert.Equal(t, tt.want, events[0].Mouse)
		})
	}
}

func TestParser_BracketedPaste(t *testing.T) {
	p, _ := newTestParser()

	events := feed(p, "\x1b[200~hello\nworld\x1b[201~")
	require.Len(t, events, 1)
	assert.Equal(t, EventPaste, events[0].Type)
	assert.Equal(t, "hello\nworld", events[0].Paste)

	// Stream continues normally after the paste.
	events = feed(p, "z")
	require.Len(t, events, 1)
	assert.Equal(t, 'z', events[0].Rune)
}

func TestParser_BracketedPasteWithPartialTerminator(t *testing.T) {
	p, _ := newTestParser()

	// Paste content containing ESC [ must not end the paste early.
	events := feed(p, "\x1b[200~a\x1b[2b\x1b[201~")
	require.Len(t, events, 1)
	assert.Equal(t, "a\x1b[2b", events[0].Paste)
}

func TestParser_UTF8Runes(t *testing.T) {
	p, _ := newTestParser()

	events := feed(p, "é日🐹")
	require.Len(t, events, 3)
	assert.Equal(t, 'é', events[0].Rune)
	assert.Equal(t, '日', events[1].Rune)
	assert.Equal(t, '🐹', events[2].Rune)
}

func TestParser_EscapeTimerNotStartedBySequences(t *testing.T) {
	p, clk := newTestParser()

	// Feed a full sequence, then flush long after: no phantom Escape.
	feed(p, "\x1b[A")
	clk.Advance(time.Second)
	events := p.FlushPending(clk.Now(), nil)
	assert.Empty(t, events)
}
