package ops

import (
	"math"

	"gonum.org/v1/gonum/floats"

	macflow "github.com/fluidlab/macflow"
	"github.com/fluidlab/macflow/grid"
)

// MaxAbsInterior returns the largest |value| over the interior of s.
func MaxAbsInterior(g *grid.Grid, s *grid.Scalar) float64 {
	max := 0.0
	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			if m := floats.Norm(s.InteriorRow(j, k), math.Inf(1)); m > max {
				max = m
			}
		}
	}
	return max
}

// MeanAbsInterior returns the mean |value| over the interior of s.
func MeanAbsInterior(g *grid.Grid, s *grid.Scalar) float64 {
	sum := 0.0
	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			sum += floats.Norm(s.InteriorRow(j, k), 1)
		}
	}
	return sum / float64(g.InteriorCells())
}

// MaxVelocity returns the largest |component| over the interior of vel.
func MaxVelocity(g *grid.Grid, vel *grid.Velocity) float64 {
	max := MaxAbsInterior(g, vel.U)
	if m := MaxAbsInterior(g, vel.V); m > max {
		max = m
	}
	if m := MaxAbsInterior(g, vel.W); m > max {
		max = m
	}
	return max
}

// CFL returns the global CFL number of vel at time step dt along with the
// per-axis maxima. The global number uses the largest component magnitude
// over all three components and the smallest spacing.
func CFL(g *grid.Grid, vel *grid.Velocity, dt float64) (
	global float64, axis [3]float64,
) {
	for a, comp := range []*grid.Scalar{vel.U, vel.V, vel.W} {
		axis[a] = MaxAbsInterior(g, comp) * dt / g.Spacing(macflow.Axis(a))
	}
	return MaxVelocity(g, vel) * dt / g.MinSpacing(), axis
}

// KineticEnergy returns 0.5 * rho * sum(|u|^2) * cellVolume over the
// interior of vel.
func KineticEnergy(g *grid.Grid, vel *grid.Velocity, rho float64) float64 {
	sum := 0.0
	for _, comp := range []*grid.Scalar{vel.U, vel.V, vel.W} {
		for k := 1; k <= g.Nz; k++ {
			for j := 1; j <= g.Ny; j++ {
				row := comp.InteriorRow(j, k)
				sum += floats.Dot(row, row)
			}
		}
	}
	return 0.5 * rho * sum * g.CellVolume()
}
