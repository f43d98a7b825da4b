package sky

import "math"

// Collider separates overlapping elements using their circle approximation.
//
// Each unordered pair is visited once per pass. Resolving a later pair can push an
// element back into one corrected earlier in the same pass; the next frame picks that up.
type Collider struct {
	Restitution float64
}

// NewCollider creates a collider with the given velocity restitution
func NewCollider(restitution float64) *Collider {
	return &Collider{Restitution: restitution}
}

// ResolveAll runs one pairwise pass and returns the number of colliding pairs
func (c *Collider) ResolveAll(elems []*Element) int {
	hits := 0
	for i := 0; i < len(elems); i++ {
		for j := i + 1; j < len(elems); j++ {
			if c.resolve(elems[i], elems[j]) {
				hits++
			}
		}
	}
	return hits
}

func (c *Collider) resolve(a, b *Element) bool {
	ca, cb := a.Center(), b.Center()
	dx := cb.X - ca.X
	dy := cb.Y - ca.Y
	distance := math.Hypot(dx, dy)
	minDist := a.radius + b.radius

	if distance >= minDist {
		return false
	}

	// Coincident centers have no normal; push apart along +X
	nx, ny := 1.0, 0.0
	if distance > 0 {
		nx, ny = dx/distance, dy/distance
	}

	half := (minDist - distance) / 2
	a.Pos.X -= nx * half
	a.Pos.Y -= ny * half
	b.Pos.X += nx * half
	b.Pos.Y += ny * half

	va, vb := a.Vel, b.Vel
	a.Vel = vb.Scale(c.Restitution)
	b.Vel = va.Scale(c.Restitution)
	return true
}
