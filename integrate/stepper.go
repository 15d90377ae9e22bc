/*package integrate advances the velocity and pressure fields by one time
step of the explicit projection scheme: an unconstrained Euler prediction,
one or more pressure-projection passes, and a final boundary enforcement,
followed by the diagnostics the scheduler reacts to.
*/
package integrate

import (
	macflow "github.com/fluidlab/macflow"
	"github.com/fluidlab/macflow/bc"
	"github.com/fluidlab/macflow/grid"
	"github.com/fluidlab/macflow/ops"
	"github.com/fluidlab/macflow/poisson"
)

// Stepper runs projection steps on one grid. It owns scratch fields and is
// not safe for concurrent use.
type Stepper struct {
	g      *grid.Grid
	fluid  macflow.FluidProperties
	reg    *bc.Registry
	solver *poisson.Solver

	// EnableProjectionRamp re-applies the tentative velocity boundary
	// conditions between projection passes.
	EnableProjectionRamp bool

	adv *grid.Velocity
	lap *grid.Velocity
	div *grid.Scalar
	rhs *grid.Scalar
	phi *grid.Scalar
}

// NewStepper validates the fluid and builds the scratch fields.
func NewStepper(
	g *grid.Grid, fluid macflow.FluidProperties,
	reg *bc.Registry, solver *poisson.Solver,
) (*Stepper, error) {
	if fluid.Density <= 0 {
		return nil, macflow.Configf("density must be positive, got %g", fluid.Density)
	}
	if fluid.Viscosity < 0 {
		return nil, macflow.Configf("viscosity must be non-negative, got %g", fluid.Viscosity)
	}
	return &Stepper{
		g: g, fluid: fluid, reg: reg, solver: solver,
		adv: grid.NewVelocity(g),
		lap: grid.NewVelocity(g),
		div: grid.NewScalar(g),
		rhs: grid.NewScalar(g),
		phi: grid.NewScalar(g),
	}, nil
}

// Step advances vel and p in place by dt using the given number of
// projection passes. The returned Diagnostics is valid even when the error
// is non-nil, so callers can flush it before terminating.
func (st *Stepper) Step(
	vel *grid.Velocity, p *grid.Scalar, dt float64, passes int, step int,
) (macflow.Diagnostics, error) {
	if passes < 1 {
		passes = 1
	}
	g := st.g
	d := macflow.Diagnostics{Step: step, Dt: dt, ProjectionPasses: passes}

	st.predict(vel, dt)
	st.reg.Apply(vel, p, false)

	ops.Divergence(g, vel, st.div)
	d.MaxDivPre = ops.MaxAbsInterior(g, st.div)
	d.MeanDivPre = ops.MeanAbsInterior(g, st.div)

	for pass := 0; pass < passes; pass++ {
		if pass > 0 {
			ops.Divergence(g, vel, st.div)
		}
		invDt := 1 / dt
		for k := 1; k <= g.Nz; k++ {
			for j := 1; j <= g.Ny; j++ {
				divRow, rhsRow := st.div.Row(j, k), st.rhs.Row(j, k)
				for i := 1; i <= g.Nx; i++ {
					rhsRow[i] = divRow[i] * invDt
				}
			}
		}

		res, err := st.solver.Solve(st.rhs, st.phi)
		if err != nil {
			return d, err
		}
		d.Residual = res

		// The correction must see phi with the same zero ghost layer the
		// Poisson operator assumed, so the ghost fill happens afterwards.
		ops.SubtractGradient(g, st.phi, dt/st.fluid.Density, vel)
		for k := 1; k <= g.Nz; k++ {
			for j := 1; j <= g.Ny; j++ {
				pRow, phiRow := p.Row(j, k), st.phi.Row(j, k)
				for i := 1; i <= g.Nx; i++ {
					pRow[i] += phiRow[i]
				}
			}
		}
		st.phi.FillGhostNeumann()

		if st.EnableProjectionRamp && pass < passes-1 {
			st.reg.Apply(vel, p, false)
		}
	}

	st.reg.Apply(vel, p, true)

	ops.Divergence(g, vel, st.div)
	d.MaxDivPost = ops.MaxAbsInterior(g, st.div)
	d.MeanDivPost = ops.MeanAbsInterior(g, st.div)
	d.MaxVelocity = ops.MaxVelocity(g, vel)
	d.GlobalCFL, d.AxisCFL = ops.CFL(g, vel, dt)
	d.KineticEnergy = ops.KineticEnergy(g, vel, st.fluid.Density)

	if vel.HasInvalid() {
		d.OverflowDetected = true
		return d, &macflow.NumericalInstabilityError{Step: step, Field: "velocity"}
	}
	if p.HasInvalid() {
		d.OverflowDetected = true
		return d, &macflow.NumericalInstabilityError{Step: step, Field: "pressure"}
	}
	return d, nil
}

// DivergenceField exposes the post-step divergence scratch field for
// emission. The slice contents are valid until the next Step call.
func (st *Stepper) DivergenceField() *grid.Scalar { return st.div }

// predict applies the explicit Euler update u* = u + dt (-adv + nu lap u)
// to the interior of every component.
func (st *Stepper) predict(vel *grid.Velocity, dt float64) {
	g := st.g
	nu := st.fluid.Viscosity / st.fluid.Density

	ops.Advection(g, vel, st.adv)
	for _, a := range ops.Axes {
		ops.Laplacian(g, vel.Component(a), st.lap.Component(a))
	}

	for _, a := range ops.Axes {
		comp := vel.Component(a)
		advC, lapC := st.adv.Component(a), st.lap.Component(a)
		ops.ForEachPlane(1, g.Nz+1, func(k int) {
			for j := 1; j <= g.Ny; j++ {
				row := comp.Row(j, k)
				aRow, lRow := advC.Row(j, k), lapC.Row(j, k)
				for i := 1; i <= g.Nx; i++ {
					row[i] += dt * (nu*lRow[i] - aRow[i])
				}
			}
		})
	}
}
