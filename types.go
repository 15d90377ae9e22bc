/*package macflow holds the types shared by every stage of the solver:
fluid properties, axis identifiers, per-step diagnostics, and the error
taxonomy separating setup failures from mid-run instability.
*/
package macflow

// FluidProperties describes the working fluid. Density must be positive,
// viscosity non-negative. Both are fixed for the lifetime of a simulation.
type FluidProperties struct {
	Density   float64
	Viscosity float64
}

// Axis identifies one of the three grid directions.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return "?"
}

// Diagnostics is the per-step output of the integrator, read by the
// scheduler and handed to downstream consumers. Divergence and CFL values
// are computed over the interior only; ghost cells never contribute.
type Diagnostics struct {
	Step int
	Time float64
	Dt   float64

	// Divergence before and after the projection passes.
	MaxDivPre   float64
	MeanDivPre  float64
	MaxDivPost  float64
	MeanDivPost float64

	MaxVelocity   float64
	GlobalCFL     float64
	AxisCFL       [3]float64
	KineticEnergy float64

	// Residual is the max-norm Poisson residual of the last projection
	// pass. It is reported, never used as a convergence check.
	Residual float64

	ProjectionPasses int
	DampingApplied   bool
	OverflowDetected bool
}
