package ui

import (
	"math"
	"math/rand"
)

// Star is a decorative background point. X and Y are fractions of the sky so the field
// survives a resize.
type Star struct {
	X, Y   float64
	Phase  float64
	Period float64 // frames per twinkle cycle
}

var starRunes = []rune{' ', '·', '.', '✦', '*'}

// NewStarField scatters n stars
func NewStarField(n int, rng *rand.Rand) []Star {
	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			X:      rng.Float64(),
			Y:      rng.Float64(),
			Phase:  rng.Float64() * 2 * math.Pi,
			Period: 60 + rng.Float64()*120,
		}
	}
	return stars
}

// Glyph returns the star's rune at frame seq
func (s Star) Glyph(seq uint64) rune {
	period := s.Period
	if period <= 0 {
		period = 90
	}
	brightness := (math.Sin(float64(seq)*2*math.Pi/period+s.Phase) + 1) / 2
	i := int(brightness * float64(len(starRunes)))
	if i >= len(starRunes) {
		i = len(starRunes) - 1
	}
	return starRunes[i]
}
