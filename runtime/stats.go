package runtime

// Stats is a point-in-time observability snapshot of the event core,
// suitable for debug overlays and metrics export.
type Stats struct {
	Queued       int
	Dropped      uint64
	PeakDepth    int
	ShutDown     bool
	PendingTicks int
	ActiveTimers int
}
