package ui

import (
	"math"

	"github.com/mattn/go-runewidth"
	"github.com/yourusername/wish-sky/internal/sky"
)

// GlyphKind says what a cell shows; renderers map kinds to colors
type GlyphKind uint8

const (
	GlyphEmpty GlyphKind = iota
	GlyphStar
	GlyphBorder
	GlyphText
	GlyphWide // right half of a double-width rune, draws nothing
)

// Glyph is one terminal cell of the composed sky
type Glyph struct {
	Ch       rune
	Kind     GlyphKind
	Variant  sky.Variant
	Selected bool
	Rising   bool
}

// Canvas is a rows x cols grid of glyphs
type Canvas [][]Glyph

// swayAmplitude is the horizontal offset, in cells, of a wish at the peak of its sway
const swayAmplitude = 1.0

// card border runes: top-left, top-right, bottom-left, bottom-right, horizontal, vertical
var cardBorder = [6]rune{'╭', '╮', '╰', '╯', '─', '│'}

// Compose lays out stars and wishes for a frame. Wish positions are world units: x maps to
// columns directly and y is divided by aspect to get rows. Later wishes draw over earlier ones.
func Compose(frame sky.Frame, stars []Star, cols, rows int, aspect float64, selectedID string) Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	if aspect <= 0 {
		aspect = 1
	}

	canvas := make(Canvas, rows)
	for y := range canvas {
		canvas[y] = make([]Glyph, cols)
	}

	for _, s := range stars {
		x, y := int(s.X*float64(cols)), int(s.Y*float64(rows))
		if x < 0 || x >= cols || y < 0 || y >= rows {
			continue
		}
		if ch := s.Glyph(frame.Seq); ch != ' ' {
			canvas[y][x] = Glyph{Ch: ch, Kind: GlyphStar}
		}
	}

	for _, w := range frame.Wishes {
		col := int(math.Round(w.Pos.X + w.Sway(swayAmplitude)))
		row := int(math.Round(w.Pos.Y / aspect))
		drawCard(canvas, w, col, row, int(math.Round(w.Size.W)), w.ID == selectedID)
	}
	return canvas
}

// drawCard draws a bordered three-row card with the wish text centred in the middle row
func drawCard(canvas Canvas, w sky.WishView, col, row, width int, selected bool) {
	base := Glyph{Variant: w.Variant, Selected: selected, Rising: w.Rising}
	if width < 2 {
		width = 2
	}

	set := func(x, y int, ch rune, kind GlyphKind) {
		if y < 0 || y >= len(canvas) || x < 0 || x >= len(canvas[y]) {
			return
		}
		g := base
		g.Ch, g.Kind = ch, kind
		canvas[y][x] = g
	}

	right := col + width - 1
	for x := col + 1; x < right; x++ {
		set(x, row, cardBorder[4], GlyphBorder)
		set(x, row+1, ' ', GlyphText)
		set(x, row+2, cardBorder[4], GlyphBorder)
	}
	set(col, row, cardBorder[0], GlyphBorder)
	set(right, row, cardBorder[1], GlyphBorder)
	set(col, row+1, cardBorder[5], GlyphBorder)
	set(right, row+1, cardBorder[5], GlyphBorder)
	set(col, row+2, cardBorder[2], GlyphBorder)
	set(right, row+2, cardBorder[3], GlyphBorder)

	inner := width - 2
	text := runewidth.Truncate(w.Text, max(inner-2, 0), "…")
	x := col + 1 + (inner-runewidth.StringWidth(text))/2
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		set(x, row+1, r, GlyphText)
		if rw == 2 {
			set(x+1, row+1, 0, GlyphWide)
		}
		x += rw
	}
}
