package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/fluffyui/backend"
	"github.com/odvcencio/fluffyui/clock"
	"github.com/odvcencio/fluffyui/terminal"
)

// Loop defaults.
const (
	DefaultFrameRate  = 60
	DefaultEventSlice = 0.25

	// maxReadsPerFrame bounds input pumping so a flood of bytes cannot
	// starve dispatch and rendering.
	maxReadsPerFrame = 8
	readChunk        = 256
)

// Loop state machine.
const (
	stateNotStarted int32 = iota
	stateRunning
	stateStopping
)

var (
	// ErrNoRoot is returned by Run when no root widget is configured.
	ErrNoRoot = errors.New("runtime: no root widget")
	// ErrAlreadyRunning is returned by Run when the loop was already
	// started.
	ErrAlreadyRunning = errors.New("runtime: loop already running")
)

// App is the frame-paced event loop: it pumps the byte source through
// the parser, routes decoded events through the coalescer into the
// priority queue, dispatches to the widget tree within a per-frame
// time budget, and turns widget commands into scheduling or outbound
// work.
//
// The loop goroutine owns the parser, coalescer, tick scheduler, and
// timer set. The queue is the only structure shared with producers;
// Post and PostAuto are safe from any goroutine.
type App struct {
	id      string
	baseLog *slog.Logger
	log     *slog.Logger
	clk     clock.Clock

	root     Widget
	renderer Renderer
	backend  backend.Backend
	poller   terminal.Poller
	session  *terminal.Session

	queue  *Queue
	coal   *Coalescer
	parser *terminal.Parser

	fps            int
	eventSlice     float64
	queueCapacity  int
	resizeDebounce time.Duration
	motionDebounce time.Duration
	escapeTimeout  time.Duration

	state atomic.Int32

	cmdMu  sync.Mutex
	cmdOut []Command

	ticks  tickScheduler
	timers *timerSet

	bounds      Context
	focusMu     sync.Mutex
	focus       Widget
	needsRedraw bool
	lastRender  time.Time

	preFrame  []func()
	postFrame []func()

	statTicks  atomic.Int64
	statTimers atomic.Int64

	readBuf   []byte
	evScratch []terminal.Event
	msgBuf    []Message
}

// NewApp assembles the event core. The clock, queue, coalescer, and
// parser all share one monotonic clock so debounce math and eviction
// ordering stay consistent.
func NewApp(opts ...Option) *App {
	a := &App{
		id:         ulid.Make().String(),
		baseLog:    slog.Default(),
		clk:        clock.System{},
		fps:        DefaultFrameRate,
		eventSlice: DefaultEventSlice,
		timers:     newTimerSet(),
		readBuf:    make([]byte, readChunk),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.baseLog.With("component", "fluffyui.runtime", "run_id", a.id)
	a.queue = NewQueue(a.clk, a.queueCapacity)
	a.coal = NewCoalescer(a.clk, a.resizeDebounce, a.motionDebounce)
	a.parser = terminal.NewParser(a.clk, a.escapeTimeout)
	return a
}

// SetRoot replaces the root widget. Only valid before Run.
func (a *App) SetRoot(w Widget) { a.root = w }

// Run drives the loop until Stop is called or the context is
// cancelled. It requires a root widget.
func (a *App) Run(ctx context.Context) error {
	if a.root == nil {
		return ErrNoRoot
	}
	if !a.state.CompareAndSwap(stateNotStarted, stateRunning) {
		return ErrAlreadyRunning
	}

	if a.session != nil {
		if err := a.session.Start(); err != nil {
			return err
		}
		defer func() {
			if err := a.session.Stop(); err != nil {
				a.log.Warn("session stop", "error", err)
			}
		}()
		if a.backend == nil {
			b, err := backend.NewFile(a.session.Input())
			if err != nil {
				return err
			}
			a.backend = b
			defer b.Close()
		}
		stopResize := terminal.NotifyResize(a.session, func(w, h int) {
			_ = a.PostAuto(ResizeMsg{Width: w, Height: h})
		})
		defer stopResize()
	}

	if a.poller != nil && a.backend != nil {
		if fd := a.backend.Fd(); fd >= 0 {
			a.poller.RegisterRead(fd)
			defer a.poller.Deregister(fd)
		}
	}

	a.log.Debug("loop starting", "fps", a.fps)

	_ = a.queue.PushAuto(InitMsg{})
	if a.session != nil {
		if w, h, err := a.session.Size(); err == nil {
			_ = a.queue.PushAuto(ResizeMsg{Width: w, Height: h})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	loopDone := make(chan struct{})
	g.Go(func() error {
		defer close(loopDone)
		return a.loop(ctx)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			a.Stop()
		case <-loopDone:
		}
		return nil
	})
	return g.Wait()
}

// Stop asks the loop to wind down. Idempotent; it shuts the queue down
// so any blocked waiter wakes, and the loop drains the backlog before
// exiting.
func (a *App) Stop() {
	if a.state.Swap(stateStopping) == stateStopping {
		return
	}
	a.queue.Shutdown()
}

func (a *App) stopping() bool {
	return a.state.Load() == stateStopping
}

// Post injects an externally sourced event with an explicit priority.
// Safe from any goroutine.
func (a *App) Post(msg Message, prio Priority) error {
	return a.queue.Push(msg, prio)
}

// PostAuto injects an externally sourced event with derived priority.
// Safe from any goroutine.
func (a *App) PostAuto(msg Message) error {
	return a.queue.PushAuto(msg)
}

// PopCommands drains the outbound command queue for the host
// application to execute (clipboard, title, notifications).
func (a *App) PopCommands() []Command {
	a.cmdMu.Lock()
	defer a.cmdMu.Unlock()
	out := a.cmdOut
	a.cmdOut = nil
	return out
}

// Focus returns the widget that most recently requested focus. Safe
// from any goroutine.
func (a *App) Focus() Widget {
	a.focusMu.Lock()
	defer a.focusMu.Unlock()
	return a.focus
}

// StartTimer registers a named timer firing fn after interval, and
// every interval thereafter when recurring. Call from the loop
// goroutine (handlers or hooks).
func (a *App) StartTimer(name string, interval time.Duration, recurring bool, fn TimerFunc) {
	a.timers.start(name, interval, recurring, a.clk.Now(), fn)
}

// StopTimer deactivates a named timer.
func (a *App) StopTimer(name string) {
	a.timers.stop(name)
}

// Stats returns an observability snapshot.
func (a *App) Stats() Stats {
	qs := a.queue.Stats()
	return Stats{
		Queued:       qs.Queued,
		Dropped:      qs.Dropped,
		PeakDepth:    qs.Peak,
		ShutDown:     qs.ShutDown,
		PendingTicks: int(a.statTicks.Load()),
		ActiveTimers: int(a.statTimers.Load()),
	}
}

func (a *App) loop(ctx context.Context) error {
	frame := time.Second / time.Duration(a.fps)

	for {
		if a.stopping() && a.queue.Len() == 0 {
			a.log.Debug("loop drained", "dropped", a.queue.Stats().Dropped)
			return nil
		}

		frameStart := a.clk.Now()
		for _, h := range a.preFrame {
			h()
		}

		if err := a.pumpInput(); err != nil {
			return err
		}

		now := a.clk.Now()
		a.evScratch = a.parser.FlushPending(now, a.evScratch[:0])
		a.routeEvents(a.evScratch)
		// Flushed events already served their debounce window; they go
		// straight to the queue, not back through the coalescer.
		a.msgBuf = a.coal.FlushPending(now, a.msgBuf[:0])
		for _, msg := range a.msgBuf {
			if err := a.queue.PushAuto(msg); err != nil {
				a.log.Debug("event dropped", "error", err)
			}
		}

		for {
			req, ok := a.ticks.popDue(now)
			if !ok {
				break
			}
			_ = a.queue.Push(TickMsg{Time: req.at, Widget: req.widget}, PriorityNormal)
		}

		if err := a.timers.scan(now); err != nil {
			return err
		}

		deadline := frameStart.Add(time.Duration(float64(frame) * a.eventSlice))
		for {
			ev, ok := a.queue.Pop()
			if !ok {
				break
			}
			if err := a.dispatch(ev); err != nil {
				return err
			}
			if !a.clk.Now().Before(deadline) {
				break
			}
		}

		now = a.clk.Now()
		if a.needsRedraw || now.Sub(a.lastRender) >= frame {
			if a.renderer != nil {
				if err := a.renderer.Render(a.root.Draw(a.bounds)); err != nil {
					return fmt.Errorf("render: %w", err)
				}
			}
			a.needsRedraw = false
			a.lastRender = now
		}

		for _, h := range a.postFrame {
			h()
		}

		a.statTicks.Store(int64(a.ticks.pending()))
		a.statTimers.Store(int64(a.timers.active()))

		if err := ctx.Err(); err != nil {
			a.Stop()
			continue
		}

		a.idle(ctx, frame-a.clk.Now().Sub(frameStart))
	}
}

// idle sleeps out the remainder of the frame budget, waking early when
// the poller reports input readiness.
func (a *App) idle(ctx context.Context, remaining time.Duration) {
	if remaining <= 0 || a.stopping() {
		return
	}
	// A held ESC byte must resolve on time, not at the next frame.
	if a.parser.HasPendingEscape() && remaining > a.escapeDeadline() {
		remaining = a.escapeDeadline()
	}
	if a.poller != nil {
		if _, err := a.poller.PollTimeout(remaining); err != nil {
			a.log.Warn("poll", "error", err)
		}
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(remaining):
	}
}

func (a *App) escapeDeadline() time.Duration {
	if a.escapeTimeout > 0 {
		return a.escapeTimeout
	}
	return terminal.DefaultEscapeTimeout
}

// pumpInput drains available bytes from the backend through the
// parser, bounded per frame.
func (a *App) pumpInput() error {
	if a.backend == nil {
		return nil
	}
	for i := 0; i < maxReadsPerFrame; i++ {
		n, err := a.backend.Read(a.readBuf)
		if n > 0 {
			a.evScratch = a.parser.FeedBytes(a.readBuf[:n], a.evScratch[:0])
			a.routeEvents(a.evScratch)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				a.log.Debug("input closed")
			} else {
				a.log.Warn("input read", "error", err)
			}
			a.backend = nil
			return nil
		}
		if n < len(a.readBuf) {
			return nil
		}
	}
	return nil
}

// routeEvents converts decoded terminal events to messages and sends
// them through the coalescer into the queue.
func (a *App) routeEvents(events []terminal.Event) {
	for _, ev := range events {
		msg := fromTerminalEvent(ev)
		if msg == nil {
			continue
		}
		a.pushDecoded(msg)
	}
}

func (a *App) pushDecoded(msg Message) {
	out, now := a.coal.Process(msg)
	if !now {
		return
	}
	if err := a.queue.PushAuto(out); err != nil {
		a.log.Debug("event dropped", "error", err)
	}
}

// dispatch hands one queued event to the root widget and applies the
// returned commands.
func (a *App) dispatch(ev QueuedEvent) error {
	if r, ok := ev.Msg.(ResizeMsg); ok {
		a.bounds = Context{Width: r.Width, Height: r.Height}
		a.needsRedraw = true
	}
	cmds, err := a.root.HandleEvent(a.bounds, ev.Msg)
	if err != nil {
		return fmt.Errorf("handle event %T: %w", ev.Msg, err)
	}
	for _, cmd := range cmds {
		a.applyCommand(cmd)
	}
	return nil
}

// applyCommand interprets loop-local commands and forwards the rest to
// the outbound queue.
func (a *App) applyCommand(cmd Command) {
	switch c := cmd.(type) {
	case RequestTick:
		a.ticks.schedule(c.Widget, c.At)
	case QueueRefresh, Redraw:
		a.needsRedraw = true
	case RequestFocus:
		a.focusMu.Lock()
		a.focus = c.Widget
		a.focusMu.Unlock()
	default:
		a.cmdMu.Lock()
		a.cmdOut = append(a.cmdOut, cmd)
		a.cmdMu.Unlock()
	}
}
