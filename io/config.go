/*package io reads simulation configuration files. Files are gcfg-style INI
with one section per concern and any number of named boundary sections:

    [Simulation]
    [Grid]
    [Fluid]
    [Scheduler]
    [Boundary "inlet"]
*/
package io

import (
	"gopkg.in/gcfg.v1"

	"github.com/fluidlab/macflow/sched"
)

const ExampleConfigFile = `[Simulation]

#######################
# Required Parameters #
#######################

# Initial time step and total simulated time. The step count is
# TotalTime / TimeStep; the scheduler may change the step size as the run
# progresses, but the planned step count is fixed at startup.
TimeStep  = 0.001
TotalTime = 1.0

#######################
# Optional Parameters #
#######################

# Only the explicit projection scheme is implemented.
# Solver = explicit

# Step cadence of full field snapshots. Metrics are written every step.
# Set to 0 to disable field snapshots.
# OutputFrequency = 10

# Starting projection pass count (the scheduler may raise or lower it) and
# whether boundary conditions are re-applied between passes.
# ProjectionPasses = 1
# EnableProjectionRamp = false

# Number of multigrid levels. Every interior grid dimension must be
# divisible by 2^(MultigridDepth - 1).
# MultigridDepth = 2

# Uniform initial conditions.
# InitialVelocityX = 0
# InitialVelocityY = 0
# InitialVelocityZ = 0
# InitialPressure  = 0

# Output files for the step log and the per-step metrics table.
# LogFile = run.log
# MetricsFile = metrics.txt

[Grid]

# Interior cell counts.
NX = 64
NY = 64
NZ = 64

# Cell spacings.
DX = 0.015625
DY = 0.015625
DZ = 0.015625

# Position of the lowermost domain corner.
# OriginX = 0
# OriginY = 0
# OriginZ = 0

[Fluid]

# Density must be positive, viscosity non-negative.
Density   = 1.0
Viscosity = 0.001

[Scheduler]
# Every parameter is optional; the defaults below are the canonical ones.

# TargetCFL = 0.9
# Aggressive = false
# DtMin = 1e-6
# DtMax = 1e-1

# MaxAllowedDivergence = 3e-2
# DivergenceSpikeFactor = 100

# ResidualKillThreshold = 1e3
# MaxProjectionPasses = 4
# ProjectionPassDecay = true
# StabilizationWindow = 5
# MaxConsecutiveFailures = 3

# DampingEnabled = true
# DampingFactor = 0.1
# EnergyThreshold = 1e3

# AbortDivergenceThreshold = 1e6
# AbortVelocityThreshold = 1e6
# AbortCFLThreshold = 1e6

[Boundary "inlet"]
# Type must be one of [ dirichlet | neumann | outflow | pressure_outlet ].
Type = dirichlet
# Face must be one of [ x- | x+ | y- | y+ | z- | z+ ].
Face = x-
# ApplyTo may be given once or twice, with values velocity and pressure.
ApplyTo = velocity
VelocityX = 1.0
VelocityY = 0
VelocityZ = 0

[Boundary "outlet"]
Type = pressure_outlet
Face = x+
ApplyTo = velocity
ApplyTo = pressure
Pressure = 0

[Boundary "walls_y"]
Type = neumann
Face = y-
ApplyTo = velocity`

type SimulationConfig struct {
	// Required
	TimeStep  float64
	TotalTime float64

	// Optional
	Solver               string
	OutputFrequency      int
	ProjectionPasses     int
	EnableProjectionRamp bool
	MultigridDepth       int

	InitialVelocityX float64
	InitialVelocityY float64
	InitialVelocityZ float64
	InitialPressure  float64

	LogFile     string
	MetricsFile string
}

func (con *SimulationConfig) ValidTimeStep() bool {
	return con.TimeStep > 0
}
func (con *SimulationConfig) ValidTotalTime() bool {
	return con.TotalTime > 0
}
func (con *SimulationConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SimulationConfig) ValidMetricsFile() bool {
	return con.MetricsFile != ""
}

type GridConfig struct {
	// Required
	NX, NY, NZ int
	DX, DY, DZ float64

	// Optional
	OriginX, OriginY, OriginZ float64
}

func (con *GridConfig) ValidCells() bool {
	return con.NX > 0 && con.NY > 0 && con.NZ > 0
}
func (con *GridConfig) ValidSpacings() bool {
	return con.DX > 0 && con.DY > 0 && con.DZ > 0
}

type FluidConfig struct {
	Density   float64
	Viscosity float64
}

func (con *FluidConfig) ValidDensity() bool {
	return con.Density > 0
}
func (con *FluidConfig) ValidViscosity() bool {
	return con.Viscosity >= 0
}

type SchedulerConfig struct {
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

type BoundaryConfig struct {
	// Required
	Type string
	Face string

	// ApplyTo lines accumulate; valid values are velocity and pressure.
	ApplyTo []string

	// Optional, depending on Type and ApplyTo.
	VelocityX float64
	VelocityY float64
	VelocityZ float64
	Pressure  float64
}

func (con *BoundaryConfig) ValidType() bool {
	return con.Type != ""
}
func (con *BoundaryConfig) ValidFace() bool {
	return con.Face != ""
}

type ConfigWrapper struct {
	Simulation SimulationConfig
	Grid       GridConfig
	Fluid      FluidConfig
	Scheduler  SchedulerConfig
	Boundary   map[string]*BoundaryConfig
}

// DefaultConfigWrapper returns a wrapper holding every resolved default, so
// a parsed file only has to mention what it changes.
func DefaultConfigWrapper() *ConfigWrapper {
	w := &ConfigWrapper{}
	w.Simulation.Solver = "explicit"
	w.Simulation.OutputFrequency = 10
	w.Simulation.ProjectionPasses = 1
	w.Simulation.MultigridDepth = 2

	sc := sched.DefaultConfig()
	w.Scheduler = SchedulerConfig{
		TargetCFL:  sc.TargetCFL,
		Aggressive: sc.Aggressive,
		DtMin:      sc.DtMin,
		DtMax:      sc.DtMax,

		MaxAllowedDivergence:  sc.MaxAllowedDivergence,
		DivergenceSpikeFactor: sc.DivergenceSpikeFactor,

		ResidualKillThreshold:  sc.ResidualKillThreshold,
		MaxProjectionPasses:    sc.MaxProjectionPasses,
		ProjectionPassDecay:    sc.ProjectionPassDecay,
		StabilizationWindow:    sc.StabilizationWindow,
		MaxConsecutiveFailures: sc.MaxConsecutiveFailures,

		DampingEnabled:  sc.DampingEnabled,
		DampingFactor:   sc.DampingFactor,
		EnergyThreshold: sc.EnergyThreshold,

		AbortDivergenceThreshold: sc.AbortDivergenceThreshold,
		AbortVelocityThreshold:   sc.AbortVelocityThreshold,
		AbortCFLThreshold:        sc.AbortCFLThreshold,
	}
	return w
}

// ReadConfig parses fname over the resolved defaults.
func ReadConfig(fname string) (*ConfigWrapper, error) {
	w := DefaultConfigWrapper()
	if err := gcfg.ReadFileInto(w, fname); err != nil {
		return nil, err
	}
	return w, nil
}

// ReadConfigString parses INI text over the resolved defaults.
func ReadConfigString(text string) (*ConfigWrapper, error) {
	w := DefaultConfigWrapper()
	if err := gcfg.ReadStringInto(w, text); err != nil {
		return nil, err
	}
	return w, nil
}
