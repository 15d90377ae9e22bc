/*package sched implements the adaptive stability scheduler: a reactive
controller evaluated once per step after diagnostics, adjusting the time
step from the observed CFL number, escalating or decaying the projection
pass count, requesting kinetic-energy damping, and aborting outright when
any metric crosses its hard threshold.

The scheduler never touches fields itself. It returns directives the driver
applies, so all field mutation stays in one place.
*/
package sched

import (
	macflow "github.com/fluidlab/macflow"
)

// Config holds every scheduler threshold. Zero values are invalid; start
// from DefaultConfig.
type Config struct {
	TargetCFL  float64
	Aggressive bool
	DtMin      float64
	DtMax      float64

	MaxAllowedDivergence  float64
	DivergenceSpikeFactor float64

	ResidualKillThreshold  float64
	MaxProjectionPasses    int
	ProjectionPassDecay    bool
	StabilizationWindow    int
	MaxConsecutiveFailures int

	DampingEnabled  bool
	DampingFactor   float64
	EnergyThreshold float64

	AbortDivergenceThreshold float64
	AbortVelocityThreshold   float64
	AbortCFLThreshold        float64
}

// DefaultConfig returns the canonical thresholds.
func DefaultConfig() Config {
	return Config{
		TargetCFL: 0.9,
		DtMin:     1e-6,
		DtMax:     1e-1,

		MaxAllowedDivergence:  3e-2,
		DivergenceSpikeFactor: 100.0,

		ResidualKillThreshold:  1e3,
		MaxProjectionPasses:    4,
		ProjectionPassDecay:    true,
		StabilizationWindow:    5,
		MaxConsecutiveFailures: 3,

		DampingEnabled:  true,
		DampingFactor:   0.1,
		EnergyThreshold: 1e3,

		AbortDivergenceThreshold: 1e6,
		AbortVelocityThreshold:   1e6,
		AbortCFLThreshold:        1e6,
	}
}

// Valid checks the config for values the controller cannot run with.
func (c *Config) Valid() error {
	switch {
	case c.TargetCFL <= 0:
		return macflow.Configf("target CFL must be positive, got %g", c.TargetCFL)
	case c.DtMin <= 0 || c.DtMax < c.DtMin:
		return macflow.Configf("invalid dt bounds [%g, %g]", c.DtMin, c.DtMax)
	case c.MaxAllowedDivergence <= 0:
		return macflow.Configf("max allowed divergence must be positive, got %g",
			c.MaxAllowedDivergence)
	case c.DivergenceSpikeFactor <= 0:
		return macflow.Configf("divergence spike factor must be positive, got %g",
			c.DivergenceSpikeFactor)
	case c.MaxProjectionPasses < 1:
		return macflow.Configf("max projection passes must be >= 1, got %d",
			c.MaxProjectionPasses)
	case c.StabilizationWindow < 1:
		return macflow.Configf("stabilization window must be >= 1, got %d",
			c.StabilizationWindow)
	case c.MaxConsecutiveFailures < 1:
		return macflow.Configf("max consecutive failures must be >= 1, got %d",
			c.MaxConsecutiveFailures)
	case c.DampingFactor < 0 || c.DampingFactor >= 1:
		return macflow.Configf("damping factor must be in [0, 1), got %g",
			c.DampingFactor)
	}
	return nil
}

// Directives is what the driver applies before the next step.
type Directives struct {
	Dt               float64
	ProjectionPasses int

	// ApplyDamping asks the driver to scale the velocity field by
	// DampingScale before the next step.
	ApplyDamping bool
	DampingScale float64
}

// Scheduler carries the controller state across steps: the current time
// step and pass count, the quiet-step and spike streaks, and the last
// observed divergence for trend reporting.
type Scheduler struct {
	cfg    Config
	dt     float64
	passes int

	stableStreak int
	spikeStreak  int
	lastMaxDiv   float64
	divDelta     float64
}

// New builds a scheduler starting from dt0 and passes0.
func New(cfg Config, dt0 float64, passes0 int) (*Scheduler, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	if dt0 < cfg.DtMin || dt0 > cfg.DtMax {
		return nil, macflow.Configf(
			"initial dt %g outside [%g, %g]", dt0, cfg.DtMin, cfg.DtMax)
	}
	if passes0 < 1 || passes0 > cfg.MaxProjectionPasses {
		return nil, macflow.Configf(
			"initial projection passes %d outside [1, %d]",
			passes0, cfg.MaxProjectionPasses)
	}
	return &Scheduler{cfg: cfg, dt: dt0, passes: passes0}, nil
}

// Dt returns the current time step.
func (s *Scheduler) Dt() float64 { return s.dt }

// Passes returns the current projection pass count.
func (s *Scheduler) Passes() int { return s.passes }

// SpikeStreak returns the current consecutive divergence-spike count.
func (s *Scheduler) SpikeStreak() int { return s.spikeStreak }

// DivergenceTrend returns the last observed max divergence and its change
// since the previous step.
func (s *Scheduler) DivergenceTrend() (last, delta float64) {
	return s.lastMaxDiv, s.divDelta
}

// Update evaluates one step's diagnostics. The abort check runs first and
// is independent of every other reflex: it fails with an
// ExtremeInstabilityError even when dt or pass adjustments could have
// responded, because a metric past its hard threshold is beyond recovery.
func (s *Scheduler) Update(d macflow.Diagnostics) (Directives, error) {
	if err := s.checkAbort(d); err != nil {
		return Directives{}, err
	}

	s.adjustTimeStep(d.GlobalCFL)
	spiked := s.trackDivergence(d.MaxDivPost)
	s.adjustPasses(d.Residual, spiked)

	dir := Directives{Dt: s.dt, ProjectionPasses: s.passes}
	if s.cfg.DampingEnabled && d.KineticEnergy > s.cfg.EnergyThreshold {
		dir.ApplyDamping = true
		dir.DampingScale = 1 - s.cfg.DampingFactor
	}
	return dir, nil
}

func (s *Scheduler) checkAbort(d macflow.Diagnostics) error {
	c := &s.cfg
	switch {
	case d.MaxDivPost > c.AbortDivergenceThreshold:
		return &macflow.ExtremeInstabilityError{
			Metric: "max_divergence", Value: d.MaxDivPost,
			Threshold: c.AbortDivergenceThreshold,
		}
	case d.MaxVelocity > c.AbortVelocityThreshold:
		return &macflow.ExtremeInstabilityError{
			Metric: "max_velocity", Value: d.MaxVelocity,
			Threshold: c.AbortVelocityThreshold,
		}
	case d.GlobalCFL > c.AbortCFLThreshold:
		return &macflow.ExtremeInstabilityError{
			Metric: "global_cfl", Value: d.GlobalCFL,
			Threshold: c.AbortCFLThreshold,
		}
	}
	return nil
}

func (s *Scheduler) adjustTimeStep(cfl float64) {
	c := &s.cfg
	switch {
	case cfl > c.TargetCFL:
		down := 0.5
		if c.Aggressive {
			down = 0.25
		}
		s.dt *= down
		if s.dt < c.DtMin {
			s.dt = c.DtMin
		}
	case cfl < 0.3*c.TargetCFL && s.dt < c.DtMax:
		up := 1.5
		if c.Aggressive {
			up = 2.0
		}
		s.dt *= up
		if s.dt > c.DtMax {
			s.dt = c.DtMax
		}
	}
}

func (s *Scheduler) trackDivergence(maxDiv float64) bool {
	s.divDelta = maxDiv - s.lastMaxDiv
	s.lastMaxDiv = maxDiv

	if maxDiv > s.cfg.DivergenceSpikeFactor*s.cfg.MaxAllowedDivergence {
		s.spikeStreak++
		return true
	}
	s.spikeStreak = 0
	return false
}

func (s *Scheduler) adjustPasses(residual float64, spiked bool) {
	c := &s.cfg
	escalate := residual > c.ResidualKillThreshold || spiked ||
		s.spikeStreak >= c.MaxConsecutiveFailures
	if escalate {
		if s.passes < c.MaxProjectionPasses {
			s.passes++
		}
		s.stableStreak = 0
		return
	}

	s.stableStreak++
	if c.ProjectionPassDecay && s.stableStreak >= c.StabilizationWindow {
		if s.passes > 1 {
			s.passes--
		}
		s.stableStreak = 0
	}
}
