package grid

import (
	"errors"
	"sync"

	"github.com/dshills/stormpane/font"
)

// ErrTargetClosed is returned by operations on a closed render target.
var ErrTargetClosed = errors.New("render target closed")

// Target is the rendering collaborator: it owns the GPU surface,
// rasterizes the configured font, and presents the cell buffer into
// the window. The run loop drives it; application code draws through
// Buffer.
type Target interface {
	// Init prepares the surface. Called once before the first frame.
	Init() error

	// Metrics returns the current pixel/cell geometry.
	Metrics() Metrics

	// Resize adapts the surface to a new framebuffer size in pixels.
	Resize(pxWidth, pxHeight int)

	// SetFont swaps the rasterized faces and size in pixels. Metrics
	// may change as a consequence.
	SetFont(faces []font.Face, sizePx float64)

	// Buffer returns the draw surface for the current frame.
	Buffer() *Buffer

	// Present submits the buffer's pending changes as a frame.
	Present() error

	// SetCursor positions the text cursor in cell coordinates.
	SetCursor(col, row int, visible bool)

	// SetBlink updates the cursor blink phase; true means visible.
	SetBlink(phase bool)

	// Close releases the surface.
	Close() error
}

// SoftTarget is an in-memory Target for tests and headless runs. Cell
// size derives from the font size (half the size wide, the full size
// tall), so font changes reshape the grid the way a rasterizer would.
type SoftTarget struct {
	mu       sync.Mutex
	metrics  Metrics
	buffer   *Buffer
	palette  Palette
	faces    []font.Face
	fontSize float64

	cursorCol, cursorRow int
	cursorVisible        bool
	blinkPhase           bool

	inited   bool
	closed   bool
	presents uint64
	applied  int // cells applied by the last present
}

// NewSoftTarget creates a software target with the given framebuffer
// size in pixels and initial font size.
func NewSoftTarget(pxWidth, pxHeight int, fontSize float64) *SoftTarget {
	if fontSize <= 0 {
		fontSize = 16
	}
	t := &SoftTarget{
		palette:    DefaultPalette(),
		fontSize:   fontSize,
		blinkPhase: true,
	}
	t.metrics = NewMetrics(pxWidth, pxHeight, cellWidthFor(fontSize), cellHeightFor(fontSize))
	t.buffer = NewBuffer(t.metrics.Cols, t.metrics.Rows)
	return t
}

func cellWidthFor(size float64) float64  { return size / 2 }
func cellHeightFor(size float64) float64 { return size }

func (t *SoftTarget) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTargetClosed
	}
	t.inited = true
	return nil
}

func (t *SoftTarget) Metrics() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.metrics
}

func (t *SoftTarget) Resize(pxWidth, pxHeight int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics = NewMetrics(pxWidth, pxHeight, t.metrics.CellWidth, t.metrics.CellHeight)
	t.buffer.Resize(t.metrics.Cols, t.metrics.Rows)
}

func (t *SoftTarget) SetFont(faces []font.Face, sizePx float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sizePx > 0 {
		t.fontSize = sizePx
	}
	t.faces = faces
	t.metrics = NewMetrics(t.metrics.PixelWidth, t.metrics.PixelHeight,
		cellWidthFor(t.fontSize), cellHeightFor(t.fontSize))
	t.buffer.Resize(t.metrics.Cols, t.metrics.Rows)
	t.buffer.MarkFullRedraw()
}

func (t *SoftTarget) Buffer() *Buffer {
	return t.buffer
}

func (t *SoftTarget) Present() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTargetClosed
	}
	changes := t.buffer.Diff()
	t.buffer.Sync()
	t.applied = len(changes)
	t.presents++
	return nil
}

func (t *SoftTarget) SetCursor(col, row int, visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursorCol, t.cursorRow = col, row
	t.cursorVisible = visible
}

func (t *SoftTarget) SetBlink(phase bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.blinkPhase = phase
}

func (t *SoftTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// FontSize returns the current font size in pixels.
func (t *SoftTarget) FontSize() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fontSize
}

// Faces returns the faces from the last SetFont.
func (t *SoftTarget) Faces() []font.Face {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.faces
}

// Palette returns the target's color table.
func (t *SoftTarget) Palette() Palette {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.palette
}

// Presents returns how many frames have been presented.
func (t *SoftTarget) Presents() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.presents
}

// LastApplied returns the number of changed cells the last present
// consumed.
func (t *SoftTarget) LastApplied() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.applied
}

// Cursor returns the cursor position and visibility.
func (t *SoftTarget) Cursor() (col, row int, visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursorCol, t.cursorRow, t.cursorVisible
}

// BlinkPhase returns the last blink phase pushed by the run loop.
func (t *SoftTarget) BlinkPhase() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.blinkPhase
}
