/*package sim wires the solver together and runs the stepping loop: the
integrator advances the fields, the scheduler reacts to the diagnostics,
and finalized snapshots go out through a queue that never blocks compute.
*/
package sim

import (
	"log"
	"math"
	"sync"

	macflow "github.com/fluidlab/macflow"
	"github.com/fluidlab/macflow/bc"
	"github.com/fluidlab/macflow/grid"
	"github.com/fluidlab/macflow/integrate"
	"github.com/fluidlab/macflow/poisson"
	"github.com/fluidlab/macflow/sched"
)

// snapshotQueueLen bounds how many finalized snapshots can be in flight
// before the compute loop has to wait on the emitter.
const snapshotQueueLen = 16

// Params are the simulation-level inputs not owned by the scheduler.
type Params struct {
	TimeStep  float64
	TotalTime float64

	// Solver selects the integration scheme. Only "explicit" exists.
	Solver string

	// OutputFrequency is the step cadence of full field snapshots.
	// Metrics-only snapshots go out every step. Zero disables field
	// snapshots entirely.
	OutputFrequency int

	InitialVelocity [3]float64
	InitialPressure float64

	ProjectionPasses     int
	EnableProjectionRamp bool
	MultigridDepth       int
}

// Valid checks the parameters the Simulation cannot run without.
func (p *Params) Valid() error {
	switch {
	case p.TimeStep <= 0:
		return macflow.Configf("time step must be positive, got %g", p.TimeStep)
	case p.TotalTime <= 0:
		return macflow.Configf("total time must be positive, got %g", p.TotalTime)
	case p.Solver != "explicit":
		return macflow.Configf("unknown solver %q, only \"explicit\" is supported",
			p.Solver)
	case p.OutputFrequency < 0:
		return macflow.Configf("output frequency must be >= 0, got %d",
			p.OutputFrequency)
	case p.MultigridDepth < 1:
		return macflow.Configf("multigrid depth must be >= 1, got %d",
			p.MultigridDepth)
	}
	return nil
}

// Simulation owns the fields and the per-step loop.
type Simulation struct {
	g      *grid.Grid
	params Params

	vel *grid.Velocity
	p   *grid.Scalar

	stepper   *integrate.Stepper
	scheduler *sched.Scheduler
	log       *log.Logger
}

// New validates everything and builds a ready-to-run simulation with the
// initial conditions applied.
func New(
	g *grid.Grid, fluid macflow.FluidProperties, params Params,
	schedCfg sched.Config, reg *bc.Registry, logger *log.Logger,
) (*Simulation, error) {
	if err := params.Valid(); err != nil {
		return nil, err
	}
	solver, err := poisson.NewSolver(g, params.MultigridDepth)
	if err != nil {
		return nil, err
	}
	stepper, err := integrate.NewStepper(g, fluid, reg, solver)
	if err != nil {
		return nil, err
	}
	stepper.EnableProjectionRamp = params.EnableProjectionRamp

	passes := params.ProjectionPasses
	if passes < 1 {
		passes = 1
	}
	scheduler, err := sched.New(schedCfg, params.TimeStep, passes)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		g: g, params: params,
		vel:     grid.NewVelocity(g),
		p:       grid.NewScalar(g),
		stepper: stepper, scheduler: scheduler,
		log: logger,
	}
	iv := params.InitialVelocity
	s.vel.SetUniform(iv[0], iv[1], iv[2])
	s.p.Fill(params.InitialPressure)
	return s, nil
}

// Fields returns the live velocity and pressure fields. Callers may seed
// non-uniform initial conditions through them before Run.
func (s *Simulation) Fields() (*grid.Velocity, *grid.Scalar) {
	return s.vel, s.p
}

// Steps returns the planned step count, total_time / initial dt rounded to
// the nearest whole step.
func (s *Simulation) Steps() int {
	n := int(math.Round(s.params.TotalTime / s.params.TimeStep))
	if n < 1 {
		n = 1
	}
	return n
}

// Run executes the stepping loop, emitting one snapshot per step. On a
// fatal error the failing step's diagnostics are still emitted before the
// error is returned; output already emitted is never rolled back. Run
// closes the emitter.
func (s *Simulation) Run(emitter Emitter) error {
	queue := make(chan *Snapshot, snapshotQueueLen)
	var emitErr error
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for snap := range queue {
			if err := emitter.Emit(snap); err != nil && emitErr == nil {
				emitErr = err
				if s.log != nil {
					s.log.Printf("snapshot emission failed: %v", err)
				}
			}
		}
	}()

	var runErr error
	dt := s.scheduler.Dt()
	passes := s.scheduler.Passes()
	time := 0.0
	steps := s.Steps()

	for step := 0; step < steps; step++ {
		d, err := s.stepper.Step(s.vel, s.p, dt, passes, step)
		time += dt
		d.Time = time

		if err != nil {
			queue <- s.snapshot(step, time, d, true)
			runErr = err
			break
		}

		dir, err := s.scheduler.Update(d)
		if err != nil {
			queue <- s.snapshot(step, time, d, true)
			runErr = err
			break
		}
		d.DampingApplied = dir.ApplyDamping

		withFields := s.params.OutputFrequency > 0 &&
			step%s.params.OutputFrequency == 0
		queue <- s.snapshot(step, time, d, withFields)

		if s.log != nil {
			s.log.Printf(
				"step %4d: t=%.4g dt=%.3g passes=%d cfl=%.3g maxdiv=%.3g residual=%.3g",
				step, time, dt, passes, d.GlobalCFL, d.MaxDivPost, d.Residual,
			)
		}

		if dir.ApplyDamping {
			s.vel.Scale(dir.DampingScale)
			if s.log != nil {
				s.log.Printf("step %4d: velocity damped by %.3g", step,
					dir.DampingScale)
			}
		}
		dt, passes = dir.Dt, dir.ProjectionPasses
	}

	close(queue)
	wg.Wait()
	if err := emitter.Close(); err != nil && emitErr == nil {
		emitErr = err
	}
	if runErr != nil {
		return runErr
	}
	return emitErr
}

// snapshot packages one step's output. Field copies are deep, so the next
// step can mutate the live arrays while the emitter drains.
func (s *Simulation) snapshot(
	step int, time float64, d macflow.Diagnostics, withFields bool,
) *Snapshot {
	snap := &Snapshot{Step: step, Time: time, Diag: d}
	if withFields {
		snap.Velocity = s.vel.Clone()
		snap.Pressure = s.p.Clone()
		snap.Divergence = s.stepper.DivergenceField().Clone()
	}
	return snap
}
