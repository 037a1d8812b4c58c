package runtime

import (
	"log/slog"
	"time"

	"github.com/odvcencio/fluffyui/backend"
	"github.com/odvcencio/fluffyui/clock"
	"github.com/odvcencio/fluffyui/terminal"
)

// Option configures an App.
type Option func(*App)

// WithRoot sets the root widget. Run fails without one.
func WithRoot(w Widget) Option {
	return func(a *App) { a.root = w }
}

// WithRenderer sets the surface renderer.
func WithRenderer(r Renderer) Option {
	return func(a *App) { a.renderer = r }
}

// WithBackend sets the raw byte source.
func WithBackend(b backend.Backend) Option {
	return func(a *App) { a.backend = b }
}

// WithPoller sets the readiness poller used to sleep between frames.
func WithPoller(p terminal.Poller) Option {
	return func(a *App) { a.poller = p }
}

// WithSession attaches a terminal session. Run starts and stops it,
// reads input from it, and posts resize events from SIGWINCH.
func WithSession(s *terminal.Session) Option {
	return func(a *App) { a.session = s }
}

// WithClock overrides the shared monotonic clock.
func WithClock(clk clock.Clock) Option {
	return func(a *App) { a.clk = clk }
}

// WithFrameRate sets the target frames per second.
func WithFrameRate(fps int) Option {
	return func(a *App) {
		if fps > 0 {
			a.fps = fps
		}
	}
}

// WithEventSlice sets the fraction of each frame budget spent popping
// and dispatching events.
func WithEventSlice(frac float64) Option {
	return func(a *App) {
		if frac > 0 && frac <= 1 {
			a.eventSlice = frac
		}
	}
}

// WithQueueCapacity bounds the event queue.
func WithQueueCapacity(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.queueCapacity = n
		}
	}
}

// WithDebounce sets the coalescing windows for resize and mouse
// motion.
func WithDebounce(resize, motion time.Duration) Option {
	return func(a *App) {
		a.resizeDebounce = resize
		a.motionDebounce = motion
	}
}

// WithEscapeTimeout sets the lone-Escape disambiguation timeout.
func WithEscapeTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.escapeTimeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.baseLog = l
		}
	}
}

// WithPreFrameHook registers a hook run at the start of each frame.
func WithPreFrameHook(fn func()) Option {
	return func(a *App) { a.preFrame = append(a.preFrame, fn) }
}

// WithPostFrameHook registers a hook run at the end of each frame.
func WithPostFrameHook(fn func()) Option {
	return func(a *App) { a.postFrame = append(a.postFrame, fn) }
}
