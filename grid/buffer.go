package grid

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Buffer is a double-buffered cell surface with change tracking. The
// back buffer receives draws; Diff computes what changed against the
// front buffer (last presented frame) and Sync promotes back to front
// after the rendering collaborator consumed the changes.
type Buffer struct {
	cols, rows int
	front      [][]Cell
	back       [][]Cell
	dirty      [][]bool
	fullRedraw bool
}

// NewBuffer creates a buffer with the given grid dimensions.
func NewBuffer(cols, rows int) *Buffer {
	b := &Buffer{
		cols:       cols,
		rows:       rows,
		fullRedraw: true,
	}
	b.allocate()
	return b
}

func (b *Buffer) allocate() {
	b.front = make([][]Cell, b.rows)
	b.back = make([][]Cell, b.rows)
	b.dirty = make([][]bool, b.rows)

	for y := 0; y < b.rows; y++ {
		b.front[y] = make([]Cell, b.cols)
		b.back[y] = make([]Cell, b.cols)
		b.dirty[y] = make([]bool, b.cols)

		for x := 0; x < b.cols; x++ {
			b.front[y][x] = EmptyCell()
			b.back[y][x] = EmptyCell()
		}
	}
}

// Resize resizes the buffer, preserving back-buffer content where it
// still fits. Forces a full redraw on the next diff.
func (b *Buffer) Resize(cols, rows int) {
	if cols == b.cols && rows == b.rows {
		return
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	oldBack := b.back
	oldCols, oldRows := b.cols, b.rows

	b.cols, b.rows = cols, rows
	b.allocate()

	for y := 0; y < min(oldRows, rows); y++ {
		for x := 0; x < min(oldCols, cols); x++ {
			b.back[y][x] = oldBack[y][x]
		}
	}
	b.fullRedraw = true
}

// Size returns the grid dimensions.
func (b *Buffer) Size() (cols, rows int) {
	return b.cols, b.rows
}

// SetCell writes a cell to the back buffer. Out-of-bounds writes are
// ignored.
func (b *Buffer) SetCell(x, y int, cell Cell) {
	if x < 0 || x >= b.cols || y < 0 || y >= b.rows {
		return
	}
	b.back[y][x] = cell
	b.dirty[y][x] = true
}

// CellAt returns a back-buffer cell, or an empty cell out of bounds.
func (b *Buffer) CellAt(x, y int) Cell {
	if x < 0 || x >= b.cols || y < 0 || y >= b.rows {
		return EmptyCell()
	}
	return b.back[y][x]
}

// FrontCellAt returns the last presented cell at the position.
func (b *Buffer) FrontCellAt(x, y int) Cell {
	if x < 0 || x >= b.cols || y < 0 || y >= b.rows {
		return EmptyCell()
	}
	return b.front[y][x]
}

// Clear resets the back buffer to empty cells.
func (b *Buffer) Clear() {
	empty := EmptyCell()
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.cols; x++ {
			b.back[y][x] = empty
			b.dirty[y][x] = true
		}
	}
}

// Fill fills a rectangle with the given cell. Coordinates clamp to the
// grid; Right and Bottom are exclusive.
func (b *Buffer) Fill(left, top, right, bottom int, cell Cell) {
	for y := top; y < bottom && y < b.rows; y++ {
		for x := left; x < right && x < b.cols; x++ {
			if x >= 0 && y >= 0 {
				b.back[y][x] = cell
				b.dirty[y][x] = true
			}
		}
	}
}

// SetString writes a string starting at the position, advancing by the
// display width of each grapheme cluster. Wide clusters leave a
// continuation cell in their second column. Returns the column after
// the last written cell.
func (b *Buffer) SetString(x, y int, s string, style tcell.Style) int {
	if y < 0 || y >= b.rows {
		return x
	}

	col := x
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if col >= b.cols {
			break
		}

		runes := gr.Runes()
		width := gr.Width()
		if len(runes) == 0 || width == 0 {
			continue
		}
		if col < 0 {
			col += width
			continue
		}

		b.back[y][col] = Cell{Rune: runes[0], Width: width, Style: style}
		b.dirty[y][col] = true
		col++

		if width == 2 && col < b.cols {
			b.back[y][col] = ContinuationCell()
			b.dirty[y][col] = true
			col++
		}
	}
	return col
}

// Change is one cell difference between the back and front buffers.
type Change struct {
	X, Y int
	Cell Cell
}

// Diff returns the changes needed to bring the front buffer up to
// date. Returns nil when nothing changed.
func (b *Buffer) Diff() []Change {
	var changes []Change
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.cols; x++ {
			if !b.fullRedraw && !b.dirty[y][x] {
				continue
			}
			if b.fullRedraw || !b.back[y][x].Equals(b.front[y][x]) {
				changes = append(changes, Change{X: x, Y: y, Cell: b.back[y][x]})
			}
		}
	}
	return changes
}

// Sync promotes the back buffer to front and clears dirty flags. Call
// after the rendering collaborator applied the diff.
func (b *Buffer) Sync() {
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.cols; x++ {
			b.front[y][x] = b.back[y][x]
			b.dirty[y][x] = false
		}
	}
	b.fullRedraw = false
}

// MarkFullRedraw forces the next diff to cover every cell.
func (b *Buffer) MarkFullRedraw() {
	b.fullRedraw = true
}

// IsDirty reports whether any cell changed since the last sync.
func (b *Buffer) IsDirty() bool {
	if b.fullRedraw {
		return true
	}
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.cols; x++ {
			if b.dirty[y][x] {
				return true
			}
		}
	}
	return false
}
