package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		msg  Message
		want Priority
	}{
		{InitMsg{}, PriorityCritical},
		{ResizeMsg{Width: 1, Height: 1}, PriorityCritical},
		{KeyMsg{Rune: 'a'}, PriorityHigh},
		{MouseMsg{}, PriorityHigh},
		{FocusMsg{Gained: true}, PriorityHigh},
		{PasteMsg{Text: "x"}, PriorityHigh},
		{TickMsg{}, PriorityNormal},
		{SuspendMsg{}, PriorityLow},
		{ResumeMsg{}, PriorityLow},
		{CustomMsg{Value: 42}, PriorityNormal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriorityFor(tt.msg), "%T", tt.msg)
	}
}

func TestPriorityString(t *testing.T) {
	assert.Equal(t, "critical", PriorityCritical.String())
	assert.Equal(t, "idle", PriorityIdle.String())
	assert.Equal(t, "unknown", Priority(99).String())
}
