package sky

import "github.com/mattn/go-runewidth"

// Measurer sizes a wish once, at creation
type Measurer interface {
	Measure(text string) Size
}

// TextMeasurer measures terminal text. Cells are CellAspect units tall for every unit of
// width, so circles in world space look round on screen.
type TextMeasurer struct {
	PadX       int // cells added left and right of the text
	Rows       int // rows the rendered wish occupies
	CellAspect float64
}

// DefaultMeasurer matches the bordered wish card drawn by the terminal renderers
func DefaultMeasurer() TextMeasurer {
	return TextMeasurer{PadX: 2, Rows: 3, CellAspect: 2}
}

func (m TextMeasurer) Measure(text string) Size {
	aspect := m.CellAspect
	if aspect <= 0 {
		aspect = 1
	}
	rows := m.Rows
	if rows < 1 {
		rows = 1
	}
	return Size{
		W: float64(runewidth.StringWidth(text) + 2*m.PadX),
		H: float64(rows) * aspect,
	}
}
