// Package grid provides the character-cell surface shared between the
// run loop and the rendering collaborator: pixel/cell geometry, a
// double-buffered cell buffer with change tracking, and the default
// color palette.
package grid

import "math"

// Metrics describes the window geometry in both pixel and cell space.
// CellWidth and CellHeight are the pixels one character cell occupies;
// the rendering collaborator derives them from the rasterized font.
type Metrics struct {
	PixelWidth  int
	PixelHeight int
	CellWidth   float64
	CellHeight  float64
	Cols        int
	Rows        int
}

// NewMetrics computes grid dimensions from pixel dimensions and cell
// size. Degenerate inputs clamp to a one-cell grid so callers never
// divide by zero downstream.
func NewMetrics(pxWidth, pxHeight int, cellWidth, cellHeight float64) Metrics {
	m := Metrics{
		PixelWidth:  pxWidth,
		PixelHeight: pxHeight,
		CellWidth:   cellWidth,
		CellHeight:  cellHeight,
		Cols:        1,
		Rows:        1,
	}
	if cellWidth > 0 && pxWidth > 0 {
		if cols := int(float64(pxWidth) / cellWidth); cols > 0 {
			m.Cols = cols
		}
	}
	if cellHeight > 0 && pxHeight > 0 {
		if rows := int(float64(pxHeight) / cellHeight); rows > 0 {
			m.Rows = rows
		}
	}
	return m
}

// CellAt converts a pixel position to cell coordinates, clamped to the
// grid. Used for mouse translation.
func (m Metrics) CellAt(px, py float64) (col, row int) {
	if m.CellWidth > 0 {
		col = int(math.Floor(px / m.CellWidth))
	}
	if m.CellHeight > 0 {
		row = int(math.Floor(py / m.CellHeight))
	}
	if col < 0 {
		col = 0
	}
	if col >= m.Cols {
		col = m.Cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= m.Rows {
		row = m.Rows - 1
	}
	return col, row
}

// SameGrid reports whether two metrics describe the same cell grid,
// ignoring pixel-level differences.
func (m Metrics) SameGrid(o Metrics) bool {
	return m.Cols == o.Cols && m.Rows == o.Rows
}
