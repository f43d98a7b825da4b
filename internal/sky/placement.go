package sky

import "math/rand"

// Fallback selects what the placer returns once every attempt collided
type Fallback uint8

const (
	// FallbackLast returns the last candidate as-is
	FallbackLast Fallback = iota
	// FallbackNudge shifts the last candidate up by NudgeStep and re-clamps it into bounds
	FallbackNudge
)

// Placer finds starting positions that keep breathing room around existing boxes.
// The guarantee is soft: when space runs out the best-effort candidate is returned.
type Placer struct {
	Attempts  int
	Margin    float64 // inflation applied to every existing box on each axis
	Fallback  Fallback
	NudgeStep float64

	rng *rand.Rand
}

// NewPlacer creates a placer drawing candidates from rng
func NewPlacer(attempts int, margin float64, rng *rand.Rand) *Placer {
	if attempts < 1 {
		attempts = 1
	}
	return &Placer{
		Attempts:  attempts,
		Margin:    margin,
		NudgeStep: margin * 4,
		rng:       rng,
	}
}

// Find returns a top-left position for a size box inside bounds. ok is false when no
// candidate cleared all existing boxes (degraded placement).
func (p *Placer) Find(size Size, bounds Rect, existing []Rect) (pos Vec, ok bool) {
	inflated := make([]Rect, len(existing))
	for i, r := range existing {
		inflated[i] = r.Inflate(p.Margin)
	}

	for i := 0; i < p.Attempts; i++ {
		pos = p.candidate(size, bounds)
		if !overlapsAny(boxAt(pos, size), inflated) {
			return pos, true
		}
	}

	if p.Fallback == FallbackNudge {
		pos.Y = clamp(pos.Y-p.NudgeStep, bounds.MinY, bounds.MaxY-size.H)
	}
	return pos, false
}

// candidate samples a position uniformly so the whole box fits when it can
func (p *Placer) candidate(size Size, bounds Rect) Vec {
	spanX := bounds.Width() - size.W
	spanY := bounds.Height() - size.H

	x := bounds.MinX
	if spanX > 0 {
		x += p.rng.Float64() * spanX
	}
	y := bounds.MinY
	if spanY > 0 {
		y += p.rng.Float64() * spanY
	}
	return Vec{X: x, Y: y}
}

func boxAt(pos Vec, size Size) Rect {
	return Rect{MinX: pos.X, MaxX: pos.X + size.W, MinY: pos.Y, MaxY: pos.Y + size.H}
}

func overlapsAny(box Rect, others []Rect) bool {
	for _, o := range others {
		if box.Overlaps(o) {
			return true
		}
	}
	return false
}
