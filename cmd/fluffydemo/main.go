// Command fluffydemo is a minimal application exercising the input
// pipeline: it echoes decoded events, schedules a recurring clock
// tick, and forwards clipboard/title commands to the terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/fluffyui/config"
	"github.com/odvcencio/fluffyui/runtime"
	"github.com/odvcencio/fluffyui/terminal"
	"github.com/odvcencio/fluffyui/tracing"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// echoWidget displays the most recent events and demonstrates the
// command surface.
type echoWidget struct {
	events []string
	mouse  string
	quit   func()
}

func (w *echoWidget) Draw(ctx runtime.Context) runtime.Surface {
	lines := make([]string, 0, ctx.Height)
	lines = append(lines, titleStyle.Render("fluffyui input demo"))
	lines = append(lines, statusStyle.Render("type keys, move the mouse; q or ctrl+c quits, y copies, t sets title"))
	lines = append(lines, "")
	start := 0
	if keep := ctx.Height - 5; len(w.events) > keep && keep > 0 {
		start = len(w.events) - keep
	}
	for _, e := range w.events[start:] {
		lines = append(lines, runewidth.Truncate(e, max(ctx.Width, 1), "…"))
	}
	if w.mouse != "" {
		lines = append(lines, statusStyle.Render(w.mouse))
	}
	return runtime.Surface{Lines: lines}
}

func (w *echoWidget) HandleEvent(ctx runtime.Context, msg runtime.Message) ([]runtime.Command, error) {
	switch m := msg.(type) {
	case runtime.InitMsg:
		w.events = append(w.events, "ready")
		return []runtime.Command{runtime.Redraw{}}, nil
	case runtime.KeyMsg:
		return w.handleKey(m)
	case runtime.MouseMsg:
		w.mouse = fmt.Sprintf("mouse %s at (%d,%d)", m.Button, m.X, m.Y)
		return []runtime.Command{runtime.Redraw{}}, nil
	case runtime.ResizeMsg:
		w.events = append(w.events, fmt.Sprintf("resize %dx%d", m.Width, m.Height))
		return []runtime.Command{runtime.Redraw{}}, nil
	case runtime.PasteMsg:
		w.events = append(w.events, fmt.Sprintf("pasted %d bytes", len(m.Text)))
		return []runtime.Command{runtime.Redraw{}}, nil
	case runtime.TickMsg:
		return []runtime.Command{runtime.Redraw{}}, nil
	}
	return nil, nil
}

func (w *echoWidget) handleKey(m runtime.KeyMsg) ([]runtime.Command, error) {
	label := m.Key.String()
	if m.Key == terminal.KeyRune {
		label = string(m.Rune)
	}
	if m.Mods != terminal.ModNone {
		label = m.Mods.String() + "+" + label
	}
	w.events = append(w.events, "key "+label)

	switch {
	case m.Key == terminal.KeyCtrlC, m.Key == terminal.KeyRune && m.Rune == 'q':
		w.quit()
		return nil, nil
	case m.Key == terminal.KeyRune && m.Rune == 'y':
		return []runtime.Command{
			runtime.NewCopyToClipboard(strings.Join(w.events, "\n")),
			runtime.Redraw{},
		}, nil
	case m.Key == terminal.KeyRune && m.Rune == 't':
		return []runtime.Command{
			runtime.NewSetTitle(fmt.Sprintf("fluffydemo %s", time.Now().Format("15:04:05"))),
			runtime.Redraw{},
		}, nil
	}
	return []runtime.Command{runtime.Redraw{}}, nil
}

// lineRenderer repaints the whole surface each frame; good enough for
// a demo, no diffing.
type lineRenderer struct {
	out *os.File
}

func (r *lineRenderer) Render(s runtime.Surface) error {
	var b strings.Builder
	b.WriteString("\x1b[H\x1b[2J")
	for i, line := range s.Lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(line)
	}
	_, err := r.out.WriteString(b.String())
	return err
}

func main() {
	cfg := config.Default()
	if path := os.Getenv("FLUFFYDEMO_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	session := terminal.NewSession(os.Stdin, os.Stdout)
	widget := &echoWidget{}

	opts := append(cfg.Options(),
		runtime.WithRoot(widget),
		runtime.WithSession(session),
		runtime.WithPoller(terminal.NewPoller()),
		runtime.WithRenderer(&lineRenderer{out: os.Stdout}),
		runtime.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))),
	)
	// Frame spans go to a file; the tty belongs to the session.
	var app *runtime.App
	if path := os.Getenv("FLUFFYDEMO_TRACE"); path != "" {
		traceFile, err := os.Create(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer traceFile.Close()
		tp, err := tracing.NewTracerProvider("fluffydemo", traceFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer tp.Shutdown(context.Background())
		ft := tracing.NewFrameTracer(func() runtime.Stats { return app.Stats() })
		opts = append(opts, ft.Options()...)
	}

	app = runtime.NewApp(opts...)
	widget.quit = app.Stop

	// Outbound commands execute against the terminal session.
	app.StartTimer("drain-commands", 50*time.Millisecond, true, func(time.Time) error {
		for _, cmd := range app.PopCommands() {
			switch c := cmd.(type) {
			case runtime.CopyToClipboard:
				session.CopyToClipboard(c.Text)
			case runtime.SetTitle:
				session.SetTitle(c.Title)
			case runtime.Notify:
				session.Notify(c.Title, c.Body)
			}
		}
		return nil
	})

	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
