package runtime

// Priority orders event delivery. Lower values dispatch first; the
// same order decides which events are evictable under queue pressure.
type Priority uint8

const (
	PriorityCritical Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
	PriorityIdle

	numPriorities = int(PriorityIdle) + 1
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	case PriorityIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// PriorityFor derives the default priority for a message. Producers
// may override it at push time.
func PriorityFor(msg Message) Priority {
	switch msg.(type) {
	case InitMsg, ResizeMsg:
		return PriorityCritical
	case KeyMsg, MouseMsg, FocusMsg, PasteMsg:
		return PriorityHigh
	case TickMsg:
		return PriorityNormal
	case SuspendMsg, ResumeMsg:
		return PriorityLow
	default:
		return PriorityNormal
	}
}
