package io

import (
	"log"
	"sort"

	macflow "github.com/fluidlab/macflow"
	"github.com/fluidlab/macflow/bc"
	"github.com/fluidlab/macflow/grid"
	"github.com/fluidlab/macflow/sched"
	"github.com/fluidlab/macflow/sim"
)

// BuildGrid constructs the grid from the [Grid] section.
func (w *ConfigWrapper) BuildGrid() (*grid.Grid, error) {
	gc := &w.Grid
	if !gc.ValidCells() {
		return nil, macflow.Configf(
			"[Grid] needs positive NX, NY, NZ, got %d, %d, %d",
			gc.NX, gc.NY, gc.NZ)
	}
	if !gc.ValidSpacings() {
		return nil, macflow.Configf(
			"[Grid] needs positive DX, DY, DZ, got %g, %g, %g",
			gc.DX, gc.DY, gc.DZ)
	}
	g, err := grid.New(gc.NX, gc.NY, gc.NZ, gc.DX, gc.DY, gc.DZ)
	if err != nil {
		return nil, err
	}
	g.Origin = [3]float64{gc.OriginX, gc.OriginY, gc.OriginZ}
	return g, nil
}

// BuildFluid constructs the fluid from the [Fluid] section.
func (w *ConfigWrapper) BuildFluid() (macflow.FluidProperties, error) {
	fc := &w.Fluid
	if !fc.ValidDensity() {
		return macflow.FluidProperties{}, macflow.Configf(
			"[Fluid] Density must be positive, got %g", fc.Density)
	}
	if !fc.ValidViscosity() {
		return macflow.FluidProperties{}, macflow.Configf(
			"[Fluid] Viscosity must be non-negative, got %g", fc.Viscosity)
	}
	return macflow.FluidProperties{
		Density: fc.Density, Viscosity: fc.Viscosity,
	}, nil
}

// BuildParams constructs the simulation parameters from the [Simulation]
// section.
func (w *ConfigWrapper) BuildParams() (sim.Params, error) {
	sc := &w.Simulation
	if !sc.ValidTimeStep() {
		return sim.Params{}, macflow.Configf(
			"[Simulation] TimeStep must be positive, got %g", sc.TimeStep)
	}
	if !sc.ValidTotalTime() {
		return sim.Params{}, macflow.Configf(
			"[Simulation] TotalTime must be positive, got %g", sc.TotalTime)
	}
	p := sim.Params{
		TimeStep:  sc.TimeStep,
		TotalTime: sc.TotalTime,
		Solver:    sc.Solver,

		OutputFrequency:      sc.OutputFrequency,
		ProjectionPasses:     sc.ProjectionPasses,
		EnableProjectionRamp: sc.EnableProjectionRamp,
		MultigridDepth:       sc.MultigridDepth,

		InitialVelocity: [3]float64{
			sc.InitialVelocityX, sc.InitialVelocityY, sc.InitialVelocityZ,
		},
		InitialPressure: sc.InitialPressure,
	}
	return p, p.Valid()
}

// BuildSchedulerConfig constructs the scheduler thresholds from the
// [Scheduler] section.
func (w *ConfigWrapper) BuildSchedulerConfig() (sched.Config, error) {
	s := &w.Scheduler
	cfg := sched.Config{
		TargetCFL:  s.TargetCFL,
		Aggressive: s.Aggressive,
		DtMin:      s.DtMin,
		DtMax:      s.DtMax,

		MaxAllowedDivergence:  s.MaxAllowedDivergence,
		DivergenceSpikeFactor: s.DivergenceSpikeFactor,

		ResidualKillThreshold:  s.ResidualKillThreshold,
		MaxProjectionPasses:    s.MaxProjectionPasses,
		ProjectionPassDecay:    s.ProjectionPassDecay,
		StabilizationWindow:    s.StabilizationWindow,
		MaxConsecutiveFailures: s.MaxConsecutiveFailures,

		DampingEnabled:  s.DampingEnabled,
		DampingFactor:   s.DampingFactor,
		EnergyThreshold: s.EnergyThreshold,

		AbortDivergenceThreshold: s.AbortDivergenceThreshold,
		AbortVelocityThreshold:   s.AbortVelocityThreshold,
		AbortCFLThreshold:        s.AbortCFLThreshold,
	}
	return cfg, cfg.Valid()
}

// BuildRegistry constructs and fills the boundary condition registry from
// the [Boundary "..."] sections. Sections register in name order so runs
// are reproducible regardless of map iteration.
func (w *ConfigWrapper) BuildRegistry(
	g *grid.Grid, logger *log.Logger,
) (*bc.Registry, error) {
	reg := bc.NewRegistry(g, logger)

	names := make([]string, 0, len(w.Boundary))
	for name := range w.Boundary {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		bcfg := w.Boundary[name]
		if !bcfg.ValidType() {
			return nil, macflow.Configf("[Boundary %q] has no Type", name)
		}
		if !bcfg.ValidFace() {
			return nil, macflow.Configf("[Boundary %q] has no Face", name)
		}
		kind, err := bc.ParseKind(bcfg.Type)
		if err != nil {
			return nil, err
		}
		face, err := bc.ParseFace(bcfg.Face)
		if err != nil {
			return nil, err
		}

		cond := bc.Condition{Role: name, Kind: kind, Face: face}
		for _, target := range bcfg.ApplyTo {
			switch target {
			case "velocity":
				cond.ApplyTo.Velocity = true
			case "pressure":
				cond.ApplyTo.Pressure = true
			default:
				return nil, macflow.Configf(
					"[Boundary %q] ApplyTo must be velocity or pressure, got %q",
					name, target)
			}
		}
		if cond.ApplyTo.Velocity && kind == bc.Dirichlet {
			v := [3]float64{bcfg.VelocityX, bcfg.VelocityY, bcfg.VelocityZ}
			cond.Velocity = &v
		}
		if cond.ApplyTo.Pressure && kind != bc.Neumann {
			p := bcfg.Pressure
			cond.Pressure = &p
		}

		if err := reg.Register(cond); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// BuildSimulation assembles a ready-to-run simulation from the whole file.
func (w *ConfigWrapper) BuildSimulation(logger *log.Logger) (*sim.Simulation, error) {
	g, err := w.BuildGrid()
	if err != nil {
		return nil, err
	}
	fluid, err := w.BuildFluid()
	if err != nil {
		return nil, err
	}
	params, err := w.BuildParams()
	if err != nil {
		return nil, err
	}
	schedCfg, err := w.BuildSchedulerConfig()
	if err != nil {
		return nil, err
	}
	reg, err := w.BuildRegistry(g, logger)
	if err != nil {
		return nil, err
	}
	return sim.New(g, fluid, params, schedCfg, reg, logger)
}
