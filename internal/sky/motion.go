package sky

import (
	"math"
	"math/rand"
)

// Motion advances elements by one frame. Every call is one fixed unit of time; velocity
// is not scaled by elapsed wall time.
type Motion struct {
	MaxSpeed float64 // speed clamp, 0 disables
	Jitter   float64 // max random perturbation per axis per step
	Damping  float64 // velocity multiplier per step, 1 = none
	Lift     float64 // constant added to vy per step (negative floats upward)

	rng *rand.Rand
}

// NewMotion creates a motion model drawing perturbations from rng
func NewMotion(maxSpeed, jitter float64, rng *rand.Rand) *Motion {
	return &Motion{
		MaxSpeed: maxSpeed,
		Jitter:   jitter,
		Damping:  1,
		rng:      rng,
	}
}

// Step integrates, reflects off the bounds, perturbs and clamps every element
func (m *Motion) Step(elems []*Element, bounds Rect) {
	for _, e := range elems {
		e.Pos = e.Pos.Add(e.Vel)
		reflectWalls(e, bounds)

		if m.Damping > 0 && m.Damping != 1 {
			e.Vel = e.Vel.Scale(m.Damping)
		}
		e.Vel.Y += m.Lift

		if m.Jitter > 0 {
			e.Vel.X += (m.rng.Float64()*2 - 1) * m.Jitter
			e.Vel.Y += (m.rng.Float64()*2 - 1) * m.Jitter
		}

		e.Vel = clampSpeed(e.Vel, m.MaxSpeed)
		e.Phase = math.Mod(e.Phase+e.PhaseSpeed, 2*math.Pi)
	}
}

// reflectWalls clamps the element box into bounds and turns velocity away from the wall hit.
// Boxes wider or taller than bounds pin to the min edge on that axis.
func reflectWalls(e *Element, bounds Rect) {
	maxX := math.Max(bounds.MinX, bounds.MaxX-e.size.W)
	maxY := math.Max(bounds.MinY, bounds.MaxY-e.size.H)

	if e.Pos.X < bounds.MinX {
		e.Pos.X = bounds.MinX
		e.Vel.X = math.Abs(e.Vel.X)
	} else if e.Pos.X > maxX {
		e.Pos.X = maxX
		e.Vel.X = -math.Abs(e.Vel.X)
	}

	if e.Pos.Y < bounds.MinY {
		e.Pos.Y = bounds.MinY
		e.Vel.Y = math.Abs(e.Vel.Y)
	} else if e.Pos.Y > maxY {
		e.Pos.Y = maxY
		e.Vel.Y = -math.Abs(e.Vel.Y)
	}
}

// clampSpeed rescales v to maxSpeed when it is faster, keeping direction
func clampSpeed(v Vec, maxSpeed float64) Vec {
	if maxSpeed <= 0 {
		return v
	}
	speed := v.Len()
	if speed <= maxSpeed || speed == 0 {
		return v
	}
	return v.Scale(maxSpeed / speed)
}
