package sky

import "math"

// Variant is the visual flavour picked at creation; it never affects simulation
type Variant uint8

const (
	VariantWarm Variant = iota
	VariantCool
)

func (v Variant) String() string {
	switch v {
	case VariantCool:
		return "cool"
	default:
		return "warm"
	}
}

// minRadius keeps the collision radius positive for degenerate sizes
const minRadius = 0.5

// Element is one floating wish. Identity, text and size are fixed at creation; the
// simulation mutates Pos, Vel and Phase in place.
type Element struct {
	id      string
	text    string
	size    Size
	radius  float64
	variant Variant
	rising  bool

	Pos        Vec // top-left corner
	Vel        Vec
	Phase      float64 // sway animation phase, radians
	PhaseSpeed float64
}

// NewElement builds an element whose collision radius is radiusScale * max(w, h) / 2
func NewElement(id, text string, size Size, radiusScale float64, variant Variant) *Element {
	if size.W < 0 {
		size.W = 0
	}
	if size.H < 0 {
		size.H = 0
	}

	radius := radiusScale * math.Max(size.W, size.H) / 2
	if !(radius > minRadius) {
		radius = minRadius
	}

	return &Element{
		id:      id,
		text:    text,
		size:    size,
		radius:  radius,
		variant: variant,
	}
}

func (e *Element) ID() string       { return e.id }
func (e *Element) Text() string     { return e.text }
func (e *Element) Size() Size       { return e.size }
func (e *Element) Radius() float64  { return e.radius }
func (e *Element) Variant() Variant { return e.variant }

// Rising reports whether the element entered with the upward rise impulse
func (e *Element) Rising() bool { return e.rising }

// Center returns the middle of the element box
func (e *Element) Center() Vec {
	return Vec{X: e.Pos.X + e.size.W/2, Y: e.Pos.Y + e.size.H/2}
}

// Box returns the element's bounding box at its current position
func (e *Element) Box() Rect {
	return Rect{
		MinX: e.Pos.X,
		MaxX: e.Pos.X + e.size.W,
		MinY: e.Pos.Y,
		MaxY: e.Pos.Y + e.size.H,
	}
}

// View copies the render-relevant state of the element
func (e *Element) View() WishView {
	return WishView{
		ID:      e.id,
		Text:    e.text,
		Pos:     e.Pos,
		Size:    e.size,
		Vel:     e.Vel,
		Phase:   e.Phase,
		Variant: e.variant,
		Rising:  e.rising,
	}
}

// WishView is an immutable snapshot of an element handed to renderers
type WishView struct {
	ID      string
	Text    string
	Pos     Vec
	Size    Size
	Vel     Vec
	Phase   float64
	Variant Variant
	Rising  bool
}

// Sway returns the horizontal render offset for the given amplitude
func (w WishView) Sway(amplitude float64) float64 {
	return math.Sin(w.Phase) * amplitude
}
