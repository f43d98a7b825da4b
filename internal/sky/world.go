package sky

import (
	"log"
	"math"
	"math/rand"
)

// Arrival selects how a new element enters the sky
type Arrival uint8

const (
	// ArriveResting places the element in the middle band via the placer with a gentle drift
	ArriveResting Arrival = iota
	// ArriveRising starts the element at the bottom center with an upward impulse
	ArriveRising
)

// Frame is a value snapshot of the world after one step
type Frame struct {
	Seq        uint64
	Bounds     Rect
	Wishes     []WishView // arrival order
	Collisions int
	Degraded   int // placements that fell back to a best-effort position
}

// World is the simulation context: registry, layout and the motion/collision models.
// It is not safe for concurrent use; one goroutine owns it (see Loop).
type World struct {
	cfg      Config
	layout   Layout
	registry *Registry
	placer   *Placer
	motion   *Motion
	collider *Collider
	rng      *rand.Rand

	seq        uint64
	collisions int
	degraded   int
}

// NewWorld creates a world. release is called for every element leaving the registry.
func NewWorld(cfg Config, rng *rand.Rand, release func(*Element)) *World {
	cfg = cfg.normalized()

	placer := NewPlacer(cfg.PlacementAttempts, cfg.PlacementMargin, rng)
	if cfg.NudgeFallback {
		placer.Fallback = FallbackNudge
	}

	motion := NewMotion(cfg.MaxSpeed, cfg.Jitter, rng)
	motion.Damping = cfg.Damping
	motion.Lift = cfg.Lift

	return &World{
		cfg:      cfg,
		registry: NewRegistry(cfg.MaxWishes, release),
		placer:   placer,
		motion:   motion,
		collider: NewCollider(cfg.Restitution),
		rng:      rng,
	}
}

// Config returns the effective configuration
func (w *World) Config() Config {
	return w.cfg
}

// SetLayout records the current viewport; bounds are derived from it on every use
func (w *World) SetLayout(l Layout) {
	w.layout = l
}

// Bounds returns the current placement/motion region
func (w *World) Bounds() Rect {
	return w.layout.Bounds()
}

// Registry exposes the live element set
func (w *World) Registry() *Registry {
	return w.registry
}

// Spawn creates, positions and registers an element. ok is false when an element with
// the same id is already live.
func (w *World) Spawn(id, text string, size Size, arrival Arrival) (*Element, bool) {
	if _, exists := w.registry.Get(id); exists {
		return nil, false
	}

	variant := VariantWarm
	if w.rng.Intn(2) == 1 {
		variant = VariantCool
	}

	e := NewElement(id, text, size, w.cfg.RadiusScale, variant)
	e.Phase = w.rng.Float64() * 2 * math.Pi
	e.PhaseSpeed = w.between(w.cfg.PhaseSpeedMin, w.cfg.PhaseSpeedMax)

	bounds := w.Bounds()
	switch arrival {
	case ArriveRising:
		e.rising = true
		e.Pos = Vec{
			X: clamp(bounds.MinX+bounds.Width()/2-size.W/2, bounds.MinX, bounds.MaxX-size.W),
			Y: math.Max(bounds.MinY, bounds.MaxY-size.H),
		}
		e.Vel = Vec{
			X: w.between(-w.cfg.RiseSpread, w.cfg.RiseSpread),
			Y: -w.between(w.cfg.RiseSpeedMin, w.cfg.RiseSpeedMax),
		}

	default:
		band := bounds.Band(w.cfg.RestBandTop, w.cfg.RestBandBottom)
		if band.Height() < size.H {
			band = bounds
		}
		pos, ok := w.placer.Find(size, band, w.registry.Boxes())
		if !ok {
			w.degraded++
			log.Printf("Degraded placement for wish %s after %d attempts", id, w.placer.Attempts)
		}
		e.Pos = pos

		angle := w.rng.Float64() * 2 * math.Pi
		speed := w.rng.Float64() * w.cfg.InitialSpeed
		e.Vel = Vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
	}

	evicted, ok := w.registry.Add(e)
	if !ok {
		return nil, false
	}
	for _, old := range evicted {
		log.Printf("Evicted wish %s (capacity %d)", old.ID(), w.registry.Cap())
	}
	return e, true
}

// Remove deletes an element by id; unknown ids are ignored
func (w *World) Remove(id string) bool {
	return w.registry.Remove(id)
}

// Clear removes every element
func (w *World) Clear() int {
	return w.registry.Clear()
}

// Step advances one frame: motion for all elements, then one collision pass. Collision
// separation can push a box past a wall, so boxes are clamped again before the frame ends.
func (w *World) Step() {
	elems := w.registry.elems
	bounds := w.Bounds()
	w.motion.Step(elems, bounds)
	w.collisions = w.collider.ResolveAll(elems)
	for _, e := range elems {
		reflectWalls(e, bounds)
	}
	w.seq++
}

// Snapshot copies the current state for rendering
func (w *World) Snapshot() Frame {
	wishes := make([]WishView, len(w.registry.elems))
	for i, e := range w.registry.elems {
		wishes[i] = e.View()
	}
	return Frame{
		Seq:        w.seq,
		Bounds:     w.Bounds(),
		Wishes:     wishes,
		Collisions: w.collisions,
		Degraded:   w.degraded,
	}
}

func (w *World) between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + w.rng.Float64()*(hi-lo)
}
