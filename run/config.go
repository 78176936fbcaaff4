package run

import (
	"time"

	"github.com/dshills/stormpane/font"
	"github.com/dshills/stormpane/grid"
	"github.com/dshills/stormpane/poll"
	"github.com/dshills/stormpane/window"
)

const (
	defaultTitle    = "stormpane"
	defaultFontSize = 16.0
	defaultBlink    = 500 * time.Millisecond
)

// Config is a validated run loop configuration. Obtain one from
// Builder.Build; the zero value is rejected by NewLoop.
type Config struct {
	title      string
	fontFamily string
	fontSize   float64
	blink      time.Duration
	sources    []poll.Source
	win        window.Host
	target     grid.Target
	fonts      *font.Resolver
	logger     *Logger
	built      bool
}

// Title returns the configured window title.
func (c Config) Title() string { return c.title }

// FontFamily returns the configured font family.
func (c Config) FontFamily() string { return c.fontFamily }

// FontSize returns the configured font size in pixels.
func (c Config) FontSize() float64 { return c.fontSize }

// BlinkInterval returns the cursor blink interval.
func (c Config) BlinkInterval() time.Duration { return c.blink }

// Sources returns a copy of the registered poll sources.
func (c Config) Sources() []poll.Source {
	out := make([]poll.Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// Builder assembles a Config. Each setter validates its argument; the
// first invalid value is recorded and Build reports it as a
// ConfigError naming the offending field. Later errors do not
// overwrite the first.
type Builder struct {
	cfg Config
	err error
}

// NewBuilder returns a builder seeded with defaults.
func NewBuilder() *Builder {
	return &Builder{
		cfg: Config{
			title:    defaultTitle,
			fontSize: defaultFontSize,
			blink:    defaultBlink,
		},
	}
}

func (b *Builder) fail(field, reason string) {
	if b.err == nil {
		b.err = &ConfigError{Field: field, Reason: reason}
	}
}

// WindowTitle sets the initial window title.
func (b *Builder) WindowTitle(title string) *Builder {
	b.cfg.title = title
	return b
}

// FontFamily sets the requested font family. An unavailable family is
// not an error; the loop falls back to the resolver's default face.
func (b *Builder) FontFamily(family string) *Builder {
	b.cfg.fontFamily = family
	return b
}

// FontSize sets the font size in pixels. Must be positive.
func (b *Builder) FontSize(px float64) *Builder {
	if px <= 0 {
		b.fail("font size", "must be positive")
		return b
	}
	b.cfg.fontSize = px
	return b
}

// BlinkInterval sets the cursor blink interval. Must be positive.
func (b *Builder) BlinkInterval(d time.Duration) *Builder {
	if d <= 0 {
		b.fail("blink interval", "must be positive")
		return b
	}
	b.cfg.blink = d
	return b
}

// Poll registers an event source. Sources are polled in registration
// order and may be registered more than once.
func (b *Builder) Poll(s poll.Source) *Builder {
	if s == nil {
		b.fail("poll sources", "nil source")
		return b
	}
	b.cfg.sources = append(b.cfg.sources, s)
	return b
}

// Window attaches the native window feed.
func (b *Builder) Window(h window.Host) *Builder {
	b.cfg.win = h
	return b
}

// Target sets the render target. Required.
func (b *Builder) Target(t grid.Target) *Builder {
	b.cfg.target = t
	return b
}

// Fonts sets the font resolver used for family changes at runtime.
func (b *Builder) Fonts(r *font.Resolver) *Builder {
	b.cfg.fonts = r
	return b
}

// Logger sets the loop's logger. Defaults to a stderr logger at info
// level; use NullLogger to silence it.
func (b *Builder) Logger(l *Logger) *Builder {
	b.cfg.logger = l
	return b
}

// Build validates the assembled configuration and returns it. The
// builder can be reused; Build copies the source list.
func (b *Builder) Build() (Config, error) {
	if b.err != nil {
		return Config{}, b.err
	}
	if len(b.cfg.sources) == 0 {
		return Config{}, &ConfigError{Field: "poll sources", Reason: "at least one source required"}
	}
	if b.cfg.target == nil {
		return Config{}, &ConfigError{Field: "render target", Reason: "required"}
	}
	if b.cfg.win == nil && !hasQuitCapable(b.cfg.sources) {
		return Config{}, &ConfigError{Field: "poll sources", Reason: "no quit-capable source and no window feed; the loop could never stop"}
	}

	cfg := b.cfg
	cfg.sources = make([]poll.Source, len(b.cfg.sources))
	copy(cfg.sources, b.cfg.sources)
	if cfg.logger == nil {
		cfg.logger = NewLogger(LoggerConfig{Level: LogLevelInfo})
	}
	cfg.built = true
	return cfg, nil
}

func hasQuitCapable(sources []poll.Source) bool {
	for _, s := range sources {
		if qs, ok := s.(poll.QuitSource); ok && qs.QuitCapable() {
			return true
		}
	}
	return false
}
