package sky

import "time"

// Config tunes the engine. Distances are world units, speeds are units per frame.
type Config struct {
	MaxWishes         int     `yaml:"max_wishes"`
	PlacementAttempts int     `yaml:"placement_attempts"`
	PlacementMargin   float64 `yaml:"placement_margin"`
	NudgeFallback     bool    `yaml:"nudge_fallback"`

	MaxSpeed    float64 `yaml:"max_speed"`
	Jitter      float64 `yaml:"jitter"`
	Damping     float64 `yaml:"damping"`
	Lift        float64 `yaml:"lift"`
	Restitution float64 `yaml:"restitution"`
	RadiusScale float64 `yaml:"radius_scale"`

	// Resting arrivals (initial batch) start with a random heading at up to InitialSpeed
	InitialSpeed float64 `yaml:"initial_speed"`
	// Rising arrivals (new submissions) get an upward impulse in [RiseSpeedMin, RiseSpeedMax]
	// and a sideways component in [-RiseSpread, RiseSpread]
	RiseSpeedMin float64 `yaml:"rise_speed_min"`
	RiseSpeedMax float64 `yaml:"rise_speed_max"`
	RiseSpread   float64 `yaml:"rise_spread"`

	// Band of the bounds height used for resting placement (the non-bottom mode)
	RestBandTop    float64 `yaml:"rest_band_top"`
	RestBandBottom float64 `yaml:"rest_band_bottom"`

	PhaseSpeedMin float64 `yaml:"phase_speed_min"`
	PhaseSpeedMax float64 `yaml:"phase_speed_max"`

	FrameInterval time.Duration `yaml:"frame_interval"`
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		MaxWishes:         20,
		PlacementAttempts: 20,
		PlacementMargin:   1.5,

		MaxSpeed:    0.25,
		Jitter:      0.015,
		Damping:     1,
		Lift:        0,
		Restitution: 0.8,
		RadiusScale: 0.9,

		InitialSpeed: 0.08,
		RiseSpeedMin: 0.15,
		RiseSpeedMax: 0.25,
		RiseSpread:   0.1,

		RestBandTop:    0.2,
		RestBandBottom: 0.8,

		PhaseSpeedMin: 0.02,
		PhaseSpeedMax: 0.04,

		FrameInterval: time.Second / 30,
	}
}

// normalized fills zero or invalid fields from the defaults
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.MaxWishes < 1 {
		c.MaxWishes = d.MaxWishes
	}
	if c.PlacementAttempts < 1 {
		c.PlacementAttempts = d.PlacementAttempts
	}
	if c.Damping <= 0 {
		c.Damping = d.Damping
	}
	if c.RadiusScale <= 0 {
		c.RadiusScale = d.RadiusScale
	}
	if c.RiseSpeedMax < c.RiseSpeedMin {
		c.RiseSpeedMax = c.RiseSpeedMin
	}
	if c.RestBandBottom <= c.RestBandTop {
		c.RestBandTop, c.RestBandBottom = d.RestBandTop, d.RestBandBottom
	}
	if c.PhaseSpeedMax < c.PhaseSpeedMin {
		c.PhaseSpeedMax = c.PhaseSpeedMin
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = d.FrameInterval
	}
	return c
}
