// Package main runs a scripted demo application on the stormpane run
// loop with a software render target. It exercises the full event
// path: window feed, translation, timers, tasks and frame pacing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/stormpane/event"
	"github.com/dshills/stormpane/font"
	"github.com/dshills/stormpane/grid"
	"github.com/dshills/stormpane/poll"
	stormpane "github.com/dshills/stormpane/run"
	"github.com/dshills/stormpane/window"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	title      string
	family     string
	size       float64
	blink      time.Duration
	logLevel   string
	duration   time.Duration
	explicit   map[string]bool
}

func run() int {
	opts := parseFlags()

	settings, err := loadSettings(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load settings: %v\n", err)
		return 1
	}

	level, err := stormpane.ParseLogLevel(settings.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger := stormpane.NewLogger(stormpane.LoggerConfig{Level: level, Prefix: "stormpane-demo"})

	host := window.NewNullHost(0)
	target := grid.NewSoftTarget(1280, 800, settings.size)
	fonts := font.NewResolver(font.Face{Family: settings.family})

	quit := poll.NewQuit()
	tasks := poll.NewTasks()
	timers := poll.NewTimers()
	rendered := poll.NewRendered()

	cfg, err := stormpane.NewBuilder().
		WindowTitle(settings.title).
		FontFamily(settings.family).
		FontSize(settings.size).
		BlinkInterval(settings.blink).
		Window(host).
		Target(target).
		Fonts(fonts).
		Logger(logger).
		Poll(rendered).
		Poll(tasks).
		Poll(timers).
		Poll(quit).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	app := &demoApp{
		palette:  grid.DefaultPalette(),
		deadline: opts.duration,
	}

	loop, err := stormpane.NewLoop(app, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		loop.Stop()
	}()

	go feedScript(host)

	if err := loop.Run(); err != nil {
		if errors.Is(err, stormpane.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.configPath != "" {
		if err := saveLastRun(opts.configPath, app.frames); err != nil {
			logger.Warn("save settings: %v", err)
		}
	}

	logger.Info("presented %d frames, handled %d events", app.frames, app.events)
	return 0
}

// feedScript types a short line through the window feed, then resizes
// the window once. The demo quits on its deadline timer or a signal.
func feedScript(host *window.NullHost) {
	time.Sleep(200 * time.Millisecond)
	for _, r := range "hello, stormpane" {
		host.Post(window.Event{Type: window.EventText, Text: string(r)})
		time.Sleep(40 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)
	host.Post(window.Event{Type: window.EventResized, Width: 1440, Height: 900})
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to settings file (JSON)")
	flag.StringVar(&opts.configPath, "c", "", "Path to settings file (shorthand)")
	flag.StringVar(&opts.title, "title", "stormpane demo", "Window title")
	flag.StringVar(&opts.family, "font", "Cascadia Mono", "Font family")
	flag.Float64Var(&opts.size, "size", 16, "Font size in pixels")
	flag.DurationVar(&opts.blink, "blink", 500*time.Millisecond, "Cursor blink interval")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.DurationVar(&opts.duration, "duration", 3*time.Second, "Quit after this long (0 runs until interrupted)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "stormpane-demo runs a scripted cell-grid app on a software target\n\n")
		fmt.Fprintf(os.Stderr, "Usage: stormpane-demo [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stormpane-demo                       Run for 3 seconds\n")
		fmt.Fprintf(os.Stderr, "  stormpane-demo -duration 0           Run until Ctrl-C\n")
		fmt.Fprintf(os.Stderr, "  stormpane-demo -c settings.json      Load settings from file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("stormpane-demo %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Remember which flags were given so they override the settings
	// file rather than the other way round.
	opts.explicit = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		opts.explicit[f.Name] = true
	})

	return opts
}

type settings struct {
	title    string
	family   string
	size     float64
	blink    time.Duration
	logLevel string
}

// loadSettings merges defaults, the optional settings file and
// explicit flags, in that order.
func loadSettings(opts options) (settings, error) {
	s := settings{
		title:    opts.title,
		family:   opts.family,
		size:     opts.size,
		blink:    opts.blink,
		logLevel: opts.logLevel,
	}
	if opts.configPath == "" {
		return s, nil
	}

	data, err := os.ReadFile(opts.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if !gjson.ValidBytes(data) {
		return s, fmt.Errorf("%s: not valid JSON", opts.configPath)
	}

	if v := gjson.GetBytes(data, "window.title"); v.Exists() && !opts.explicit["title"] {
		s.title = v.String()
	}
	if v := gjson.GetBytes(data, "font.family"); v.Exists() && !opts.explicit["font"] {
		s.family = v.String()
	}
	if v := gjson.GetBytes(data, "font.size"); v.Exists() && !opts.explicit["size"] {
		s.size = v.Float()
	}
	if v := gjson.GetBytes(data, "cursor.blink_ms"); v.Exists() && !opts.explicit["blink"] {
		s.blink = time.Duration(v.Int()) * time.Millisecond
	}
	if v := gjson.GetBytes(data, "log.level"); v.Exists() && !opts.explicit["log-level"] {
		s.logLevel = v.String()
	}
	return s, nil
}

// saveLastRun records the run's outcome back into the settings file.
func saveLastRun(path string, frames uint64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		data = []byte("{}")
	}
	data, err = sjson.SetBytes(data, "last_run.at", time.Now().Format(time.RFC3339))
	if err != nil {
		return err
	}
	data, err = sjson.SetBytes(data, "last_run.frames", frames)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// demoApp draws a typing line with a blinking cursor plus live
// counters for frames, timer ticks and background tasks.
type demoApp struct {
	palette  grid.Palette
	deadline time.Duration

	input  []rune
	status string
	blink  bool

	events uint64
	frames uint64
	ticks  int
	done   int
}

func (a *demoApp) Init(ctx *stormpane.Context) error {
	a.status = "ready"
	a.blink = true
	a.placeCursor(ctx)

	if a.deadline > 0 {
		if _, err := ctx.AddTimer(poll.TimerDef{Interval: a.deadline, Count: 1, Payload: "deadline"}); err != nil {
			return err
		}
	}
	if _, err := ctx.AddTimer(poll.TimerDef{Interval: 500 * time.Millisecond, Payload: "tick"}); err != nil {
		return err
	}

	// Kick off a background task so TaskDone shows up in the stream.
	return ctx.Spawn(func(tctx context.Context) (any, error) {
		select {
		case <-time.After(400 * time.Millisecond):
			return "warmup complete", nil
		case <-tctx.Done():
			return nil, tctx.Err()
		}
	})
}

func (a *demoApp) Event(ev tcell.Event, ctx *stormpane.Context) (stormpane.Control, error) {
	a.events++

	switch e := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(e, ctx)

	case *tcell.EventResize:
		w, h := e.Size()
		a.status = fmt.Sprintf("resized to %dx%d", w, h)
		return stormpane.Changed, nil

	case *event.Paste:
		a.input = append(a.input, []rune(e.Text())...)
		a.placeCursor(ctx)
		return stormpane.Changed, nil

	case *event.BlinkToggle:
		a.blink = e.Phase()
		return stormpane.Changed, nil

	case *event.FramePresented:
		a.frames = e.Frame()
		return stormpane.Continue, nil

	case *event.TimerFired:
		if e.Payload() == "deadline" {
			a.status = "deadline reached"
			return stormpane.Quit, nil
		}
		a.ticks = e.Count()
		return stormpane.Changed, nil

	case *event.TaskDone:
		a.done++
		if e.Err() != nil {
			a.status = fmt.Sprintf("task failed: %v", e.Err())
		} else {
			a.status = fmt.Sprintf("task: %v", e.Result())
		}
		return stormpane.Changed, nil

	case *event.SourceError:
		ctx.Logger().Warn("source %s: %v", e.Source(), e.Err())
		return stormpane.Unchanged, nil

	case *event.Quit:
		// Accept external quit requests.
		return stormpane.Quit, nil
	}

	return stormpane.Continue, nil
}

func (a *demoApp) handleKey(e *tcell.EventKey, ctx *stormpane.Context) (stormpane.Control, error) {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlQ:
		return stormpane.Quit, nil
	case tcell.KeyCtrlL:
		ctx.RequestRedraw()
		return stormpane.Unchanged, nil
	case tcell.KeyEnter:
		a.status = fmt.Sprintf("entered %q", string(a.input))
		a.input = a.input[:0]
		a.placeCursor(ctx)
		return stormpane.Changed, nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
			a.placeCursor(ctx)
		}
		return stormpane.Changed, nil
	case tcell.KeyRune:
		a.input = append(a.input, e.Rune())
		a.placeCursor(ctx)
		return stormpane.Changed, nil
	}
	return stormpane.Continue, nil
}

// placeCursor stages the backend caret at the end of the typed line.
// The prompt occupies columns 2 and 3, so input starts at column 4.
func (a *demoApp) placeCursor(ctx *stormpane.Context) {
	ctx.SetCursor(4+len(a.input), 2, true)
}

func (a *demoApp) Render(ctx *stormpane.Context) error {
	buf := ctx.Buffer()
	m := ctx.Metrics()

	base := tcell.StyleDefault.
		Foreground(a.palette.Foreground).
		Background(a.palette.Background)
	header := tcell.StyleDefault.
		Foreground(a.palette.Background).
		Background(a.palette.Colors[4])
	accent := base.Foreground(a.palette.Colors[6])

	buf.Fill(0, 0, m.Cols, m.Rows, grid.NewStyledCell(' ', base))

	title := fmt.Sprintf(" %s  frame %d ", ctx.WindowTitle(), ctx.Frames())
	buf.SetString(0, 0, title, header)

	n := buf.SetString(2, 2, "> "+string(a.input), base)
	if a.blink {
		buf.SetCell(n, 2, grid.NewStyledCell(' ', base.Reverse(true)))
	}

	info := fmt.Sprintf("%dx%d cells  ticks %d  tasks %d", m.Cols, m.Rows, a.ticks, a.done)
	buf.SetString(2, 4, info, accent)

	if m.Rows > 0 {
		buf.SetString(0, m.Rows-1, " "+a.status, base.Dim(true))
	}
	return nil
}

func (a *demoApp) Error(err error, ctx *stormpane.Context) (stormpane.Control, error) {
	ctx.Logger().Error("demo: %v", err)
	return stormpane.Continue, nil
}
