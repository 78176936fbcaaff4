package grid

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cell is one character cell. Width is the display width in columns;
// wide runes occupy two cells, the second holding a continuation cell.
type Cell struct {
	Rune  rune
	Width int
	Style tcell.Style
}

// EmptyCell returns a blank cell with the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: tcell.StyleDefault}
}

// ContinuationCell returns the placeholder occupying the second column
// of a wide rune.
func ContinuationCell() Cell {
	return Cell{Rune: 0, Width: 0, Style: tcell.StyleDefault}
}

// NewCell creates a cell with the default style.
func NewCell(r rune) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: tcell.StyleDefault}
}

// NewStyledCell creates a cell with the given style.
func NewStyledCell(r rune, style tcell.Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// Equals compares two cells.
func (c Cell) Equals(o Cell) bool {
	return c.Rune == o.Rune && c.Width == o.Width && c.Style == o.Style
}

// IsContinuation reports whether the cell is the trailing half of a
// wide rune.
func (c Cell) IsContinuation() bool {
	return c.Width == 0
}

// RuneWidth returns the display width of a rune in columns: 0 for
// combining and control runes, 2 for wide runes, 1 otherwise.
func RuneWidth(r rune) int {
	if r == 0 {
		return 0
	}
	return runewidth.RuneWidth(r)
}

// StringWidth returns the display width of a string in columns,
// counting grapheme clusters rather than runes.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}
