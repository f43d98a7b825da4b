package sky

import "math"

// Vec is a point or velocity in world units
type Vec struct {
	X, Y float64
}

// Add returns v + o
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v * f
func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// Len returns the vector magnitude
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Size is the measured extent of an element in world units
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle. Elements placed inside a Rect keep their whole box
// within it whenever the box fits.
type Rect struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Width returns the horizontal span (never negative for rects built by ComputeBounds)
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the vertical span
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Empty reports whether the rect has no area
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Inflate grows the rect by margin on each side
func (r Rect) Inflate(margin float64) Rect {
	return Rect{
		MinX: r.MinX - margin,
		MaxX: r.MaxX + margin,
		MinY: r.MinY - margin,
		MaxY: r.MaxY + margin,
	}
}

// Overlaps reports strict intersection; touching edges do not overlap
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && r.MaxX > o.MinX &&
		r.MinY < o.MaxY && r.MaxY > o.MinY
}

// Contains reports whether p lies inside r, edges included
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Band returns the horizontal slice of r between the given fractions of its height
func (r Rect) Band(from, to float64) Rect {
	h := r.Height()
	return Rect{
		MinX: r.MinX,
		MaxX: r.MaxX,
		MinY: r.MinY + h*from,
		MaxY: r.MinY + h*to,
	}
}

// Layout is the viewport state bounds are derived from
type Layout struct {
	Viewport Size // full drawable area
	Chrome   Rect // reserved UI docked at the bottom (input bar); zero value = none
	Padding  float64
}

// Bounds is a shortcut for ComputeBounds(l)
func (l Layout) Bounds() Rect {
	return ComputeBounds(l)
}

// ComputeBounds returns the region elements may occupy: the viewport inset by padding,
// cut off above the reserved chrome. Spans collapse to zero rather than going negative.
func ComputeBounds(l Layout) Rect {
	r := Rect{
		MinX: l.Padding,
		MaxX: l.Viewport.W - l.Padding,
		MinY: l.Padding,
		MaxY: l.Viewport.H - l.Padding,
	}

	if !l.Chrome.Empty() && l.Chrome.MinY-l.Padding < r.MaxY {
		r.MaxY = l.Chrome.MinY - l.Padding
	}

	if r.MaxX < r.MinX {
		r.MaxX = r.MinX
	}
	if r.MaxY < r.MinY {
		r.MaxY = r.MinY
	}
	return r
}

// clamp keeps v within [lo, hi]; hi below lo pins to lo
func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
