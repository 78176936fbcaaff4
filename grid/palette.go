package grid

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette is the 16-color table plus the default foreground,
// background and cursor colors handed to the rendering collaborator.
// Index 0-7 are the base colors, 8-15 the bright variants.
type Palette struct {
	Colors     [16]tcell.Color
	Foreground tcell.Color
	Background tcell.Color
	Cursor     tcell.Color
}

// Base colors of the default palette, VGA-ish.
var baseHex = [8]string{
	"#000000", // black
	"#aa0000", // red
	"#00aa00", // green
	"#aa5500", // yellow
	"#0000aa", // blue
	"#aa00aa", // magenta
	"#00aaaa", // cyan
	"#aaaaaa", // white
}

// DefaultPalette returns the default color table. Bright variants are
// derived from the base colors by blending toward white; the cursor
// color blends the foreground into the background so an unfocused or
// blink-off cursor stays visible without full contrast.
func DefaultPalette() Palette {
	var p Palette

	white := mustHex("#ffffff")
	for i, hex := range baseHex {
		base := mustHex(hex)
		p.Colors[i] = toTcell(base)
		p.Colors[i+8] = toTcell(base.BlendRgb(white, 0.42))
	}

	fg := mustHex("#d8d8d8")
	bg := mustHex("#101010")
	p.Foreground = toTcell(fg)
	p.Background = toTcell(bg)
	p.Cursor = toTcell(fg.BlendLab(bg, 0.25))
	return p
}

// Blend mixes two tcell colors in Lab space. t=0 returns a, t=1
// returns b. Used for blink dimming and selection tints.
func Blend(a, b tcell.Color, t float64) tcell.Color {
	ca := fromTcell(a)
	cb := fromTcell(b)
	return toTcell(ca.BlendLab(cb, t).Clamped())
}

// Dim darkens a color toward black by the given amount in [0, 1].
func Dim(c tcell.Color, amount float64) tcell.Color {
	return Blend(c, tcell.ColorBlack, amount)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("grid: bad palette hex " + s)
	}
	return c
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func fromTcell(c tcell.Color) colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}
