package run

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormpane/event"
	"github.com/dshills/stormpane/font"
	"github.com/dshills/stormpane/grid"
	"github.com/dshills/stormpane/poll"
	"github.com/dshills/stormpane/translate"
	"github.com/dshills/stormpane/window"
)

// State identifies the loop's lifecycle phase.
type State int32

const (
	StateIdle State = iota
	StatePolling
	StateDispatching
	StateTerminating
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateDispatching:
		return "dispatching"
	case StateTerminating:
		return "terminating"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Idle sleep pacing. The loop parks until the next pacer deadline,
// but backs off gradually after busy iterations so bursty sources get
// re-polled quickly.
const (
	idleSleep   = 250 * time.Millisecond
	backoffStep = 10 * time.Millisecond
	fastSleep   = 100 * time.Microsecond
)

// App is implemented by the application the loop drives. All
// callbacks run on the loop goroutine.
type App interface {
	// Init runs once before the first frame is presented.
	Init(ctx *Context) error

	// Event handles a single event. Translated input arrives as
	// tcell events; loop and source notifications arrive as the
	// event package types.
	Event(ev tcell.Event, ctx *Context) (Control, error)

	// Render draws the application into ctx.Buffer. It runs once per
	// presented frame.
	Render(ctx *Context) error

	// Error handles a non-fatal error reported by an event handler.
	// Returning a non-nil error stops the loop with it.
	Error(err error, ctx *Context) (Control, error)
}

// Loop multiplexes window input, pacer ticks and registered poll
// sources into a single event stream dispatched to one App. Events
// from one gather pass form a batch; batches preserve source
// registration order.
type Loop struct {
	app   App
	log   *Logger
	ctx   *Context
	tr    *translate.Translator
	pacer *pacer

	win    window.Host
	target grid.Target
	fonts  *font.Resolver

	sources  []poll.Source
	rendered *poll.Rendered
	tasks    *poll.Tasks
	timers   *poll.Timers
	quitSrc  *poll.Quit

	title      string
	fontFamily string
	fontSize   float64

	state    atomic.Int32
	running  atomic.Bool
	stopFlag atomic.Bool
	wake     chan struct{}

	controls []Control
	sleep    time.Duration
	frames   uint64
	quitting bool
	err      error
}

// NewLoop wires an application to a built configuration.
func NewLoop(app App, cfg Config) (*Loop, error) {
	if app == nil {
		return nil, &ConfigError{Field: "application", Reason: "required"}
	}
	if !cfg.built {
		return nil, &ConfigError{Field: "config", Reason: "use Builder.Build"}
	}

	l := &Loop{
		app:        app,
		log:        cfg.logger,
		title:      cfg.title,
		fontFamily: cfg.fontFamily,
		fontSize:   cfg.fontSize,
		win:        cfg.win,
		target:     cfg.target,
		fonts:      cfg.fonts,
		sources:    cfg.sources,
		tr:         translate.New(grid.NewMetrics(1, 1, 1, 1)),
		pacer:      newPacer(cfg.blink),
		wake:       make(chan struct{}, 1),
		sleep:      fastSleep,
	}
	l.ctx = newContext(l)

	// The first source of each kind backs the Context conveniences.
	for _, s := range l.sources {
		switch src := s.(type) {
		case *poll.Rendered:
			if l.rendered == nil {
				l.rendered = src
			}
		case *poll.Tasks:
			if l.tasks == nil {
				l.tasks = src
			}
		case *poll.Timers:
			if l.timers == nil {
				l.timers = src
			}
		case *poll.Quit:
			if l.quitSrc == nil {
				l.quitSrc = src
			}
		}
		if ws, ok := s.(poll.WakeSetter); ok {
			ws.SetWaker(l)
		}
	}

	return l, nil
}

// Run drives the loop until the application quits or a fatal error
// occurs. It blocks; the calling goroutine becomes the loop
// goroutine. A Loop runs once and cannot be restarted.
func (l *Loop) Run() error {
	if l.State() == StateStopped {
		return ErrStopped
	}
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	l.log.Info("run loop starting, %d sources", len(l.sources))

	if err := l.target.Init(); err != nil {
		l.finish()
		return &InitError{Component: "render target", Err: err}
	}
	l.tr.SetMetrics(l.target.Metrics())
	l.pacer.start(time.Now())

	if err := l.app.Init(l.ctx); err != nil {
		l.finish()
		return &InitError{Component: "application", Err: err}
	}

	// Apply anything Init staged, then paint the first frame so the
	// window never shows undefined content.
	l.setState(StateDispatching)
	l.dispatch(nil)
	if !l.quitting {
		l.render()
	}

	for l.State() != StateStopped {
		l.iterate()
	}

	l.log.Info("run loop stopped after %d frames", l.frames)
	return l.err
}

func (l *Loop) iterate() {
	if l.quitting {
		l.finish()
		return
	}

	l.setState(StateIdle)
	l.wait()

	if l.stopFlag.Load() {
		l.terminateWith(nil)
		l.finish()
		return
	}

	l.setState(StatePolling)
	batch, busy := l.gather()
	if busy {
		l.sleep = fastSleep
	} else if l.sleep < idleSleep {
		l.sleep += backoffStep
		if l.sleep > idleSleep {
			l.sleep = idleSleep
		}
	}

	l.setState(StateDispatching)
	l.dispatch(batch)

	if l.quitting {
		l.finish()
	}
}

// wait parks until the earliest deadline or an explicit wake.
func (l *Loop) wait() {
	d := l.sleepBound(time.Now())
	if d <= 0 {
		select {
		case <-l.wake:
		default:
		}
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-l.wake:
	case <-timer.C:
	}
}

// sleepBound returns the longest the loop may sleep: the minimum of
// the pacer deadline, every source's reported sleep time and the
// adaptive backoff.
func (l *Loop) sleepBound(now time.Time) time.Duration {
	bound := l.pacer.deadline(now).Sub(now)
	for _, s := range l.sources {
		if d, ok := s.SleepTime(); ok && d < bound {
			bound = d
		}
	}
	if l.sleep < bound {
		bound = l.sleep
	}
	return bound
}

// gather collects one batch: the window feed first, then pacer
// events, then every registered source in registration order. The
// busy flag reports whether the window or a source produced anything.
func (l *Loop) gather() ([]tcell.Event, bool) {
	var batch []tcell.Event
	busy := false

	if l.win != nil {
	feed:
		for {
			select {
			case ev, ok := <-l.win.Events():
				if !ok {
					break feed
				}
				busy = true
				batch = l.preprocess(ev, batch)
			default:
				break feed
			}
		}
	}

	batch = append(batch, l.pacer.collect(time.Now())...)

	for _, s := range l.sources {
		if l.quitting {
			break
		}
		ready, err := s.Poll()
		if err != nil {
			batch = l.sourceFailed(s, err, batch)
			continue
		}
		if !ready {
			continue
		}
		evs, err := s.Read()
		if err != nil {
			batch = l.sourceFailed(s, err, batch)
			continue
		}
		if len(evs) > 0 {
			busy = true
			batch = append(batch, evs...)
		}
	}

	return batch, busy
}

// preprocess handles window events the loop itself consumes and
// translates the rest.
func (l *Loop) preprocess(ev window.Event, batch []tcell.Event) []tcell.Event {
	switch ev.Type {
	case window.EventCloseRequested:
		l.requestQuit()
		return batch
	case window.EventResized:
		l.target.Resize(ev.Width, ev.Height)
		l.tr.SetMetrics(l.target.Metrics())
		l.pacer.requestRedraw()
	case window.EventScaleChanged:
		// Restage the current size so the target re-rasterizes for
		// the new scale factor.
		l.ctx.SetFontSize(l.fontSize)
		l.pacer.requestRedraw()
		return batch
	case window.EventMouseWheel:
		if ev.Mod.Has(window.ModCtrl) {
			l.zoomFont(ev.WheelY)
			return batch
		}
	}
	if tev := l.tr.Translate(ev); tev != nil {
		batch = append(batch, tev)
	}
	return batch
}

func (l *Loop) zoomFont(wheelY float64) {
	switch {
	case wheelY > 0:
		l.ctx.SetFontSize(l.fontSize + 1)
	case wheelY < 0:
		l.ctx.SetFontSize(l.fontSize - 1)
	}
}

func (l *Loop) sourceFailed(s poll.Source, err error, batch []tcell.Event) []tcell.Event {
	name := fmt.Sprintf("%T", s)
	if fs, ok := s.(poll.FatalSource); ok && fs.FatalKind() {
		l.log.Error("fatal poll source %s: %v", name, err)
		l.terminateWith(&SourceError{Source: name, Err: err})
		return batch
	}
	l.log.Warn("poll source %s: %v", name, err)
	return append(batch, event.NewSourceError(name, err))
}

// dispatch applies staged mutations, then delivers the batch in
// order. A quit decision stops delivery; the remainder is dropped.
func (l *Loop) dispatch(batch []tcell.Event) {
	if extra := l.applyStaged(); len(extra) > 0 {
		batch = append(extra, batch...)
	}
	l.drainControls()
	for i, ev := range batch {
		if l.quitting {
			l.log.Debug("terminating, dropping %d undispatched events", len(batch)-i)
			return
		}
		l.deliver(ev)
		l.drainControls()
	}
}

// applyStaged commits Context mutations staged during the previous
// dispatch phase. A grid reshape returns a synthesized resize event
// dispatched ahead of the batch.
func (l *Loop) applyStaged() []tcell.Event {
	st := l.ctx.takeStaged()
	if st.empty() {
		return nil
	}

	var extra []tcell.Event

	if st.title != nil && *st.title != l.title {
		l.title = *st.title
		if l.win != nil {
			l.win.SetTitle(l.title)
		}
	}

	if st.family != nil || st.size != nil {
		if st.family != nil {
			l.fontFamily = *st.family
		}
		if st.size != nil {
			l.fontSize = *st.size
		}
		extra = l.applyFont(extra)
	}

	if st.cursor != nil {
		l.target.SetCursor(st.cursor.col, st.cursor.row, st.cursor.visible)
	}

	for _, ev := range st.events {
		l.pushControl(Emit(ev))
	}

	return extra
}

func (l *Loop) applyFont(extra []tcell.Event) []tcell.Event {
	var faces []font.Face
	if l.fonts != nil {
		var ok bool
		faces, ok = l.fonts.Resolve(l.fontFamily)
		if !ok {
			l.log.Warn("font family %q unavailable, using %q", l.fontFamily, l.fonts.Fallback())
		}
	}
	before := l.target.Metrics()
	l.target.SetFont(faces, l.fontSize)
	after := l.target.Metrics()
	l.tr.SetMetrics(after)
	if !before.SameGrid(after) {
		extra = append(extra, tcell.NewEventResize(after.Cols, after.Rows))
	}
	l.pacer.requestRedraw()
	return extra
}

func (l *Loop) deliver(ev tcell.Event) {
	switch e := ev.(type) {
	case *event.RedrawRequest:
		l.render()
	case *event.BlinkToggle:
		l.target.SetBlink(e.Phase())
		l.forward(ev)
	case *event.Quit:
		l.deliverQuit(e)
	default:
		l.forward(ev)
	}
}

func (l *Loop) forward(ev tcell.Event) {
	res, err := l.app.Event(ev, l.ctx)
	if err != nil {
		l.handleAppError(err)
		return
	}
	l.pushControl(res)
}

// deliverQuit gives the application the chance to veto a quit that
// arrived through a quit source. Anything but the Quit control keeps
// the loop alive.
func (l *Loop) deliverQuit(ev *event.Quit) {
	res, err := l.app.Event(ev, l.ctx)
	if err != nil {
		l.handleAppError(err)
		return
	}
	if res.op == opQuit {
		l.terminateWith(nil)
		return
	}
	l.log.Debug("quit vetoed by application")
	l.pushControl(res)
}

func (l *Loop) pushControl(c Control) {
	l.controls = append(l.controls, c)
}

// drainControls processes queued controls until none remain or a
// quit decision is made.
func (l *Loop) drainControls() {
	for len(l.controls) > 0 && !l.quitting {
		c := l.controls[0]
		l.controls = l.controls[1:]
		switch c.op {
		case opChanged:
			l.pacer.requestRedraw()
		case opEvent:
			if c.ev != nil {
				l.deliver(c.ev)
			}
		case opQuit:
			l.terminateWith(nil)
		}
	}
}

func (l *Loop) handleAppError(err error) {
	if errors.Is(err, ErrQuit) {
		l.terminateWith(nil)
		return
	}
	res, herr := l.app.Error(err, l.ctx)
	if herr != nil {
		l.log.Error("error handler failed: %v (original: %v)", herr, err)
		l.terminateWith(herr)
		return
	}
	l.pushControl(res)
}

// render runs the application's Render callback and presents the
// frame. Frame-presented notifications go to the Rendered source.
func (l *Loop) render() {
	if err := l.app.Render(l.ctx); err != nil {
		l.handleAppError(err)
		return
	}
	if err := l.target.Present(); err != nil {
		l.handleAppError(fmt.Errorf("present frame: %w", err))
		return
	}
	l.frames++
	if l.rendered != nil {
		l.rendered.Notify(l.frames)
	}
}

// requestQuit is the window close path. With a quit source registered
// the request is routed through it so the application can veto;
// otherwise the loop stops directly.
func (l *Loop) requestQuit() {
	if l.quitSrc != nil {
		l.quitSrc.Signal()
		return
	}
	l.terminateWith(nil)
}

func (l *Loop) terminateWith(err error) {
	if err != nil && l.err == nil {
		l.err = err
	}
	l.quitting = true
}

func (l *Loop) finish() {
	l.setState(StateTerminating)
	l.shutdown()
	l.setState(StateStopped)
}

// shutdown closes every source once, then the window feed and the
// render target. Close failures are logged, not returned; the loop's
// exit error stays whatever caused termination.
func (l *Loop) shutdown() {
	seen := make(map[poll.Source]bool, len(l.sources))
	for _, s := range l.sources {
		if seen[s] {
			continue
		}
		seen[s] = true
		if err := s.Close(); err != nil {
			l.log.Error("close poll source %T: %v", s, err)
		}
	}
	if l.win != nil {
		if err := l.win.Close(); err != nil {
			l.log.Error("close window: %v", err)
		}
	}
	if err := l.target.Close(); err != nil {
		l.log.Error("close render target: %v", err)
	}
}

// Wake nudges the loop out of its idle sleep. Safe from any
// goroutine; sources wired through SetWaker call this when work
// arrives.
func (l *Loop) Wake() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Stop requests termination from outside the loop. With a quit source
// registered the request goes through it, giving the application its
// usual chance to veto; otherwise the loop stops directly.
func (l *Loop) Stop() {
	if l.quitSrc != nil {
		l.quitSrc.Signal()
		return
	}
	l.stopFlag.Store(true)
	l.Wake()
}

// State returns the loop's current lifecycle phase.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// IsRunning reports whether Run is active.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
}
