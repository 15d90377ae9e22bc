/*package poisson solves the pressure Poisson equation lap(phi) = rhs with a
fixed-depth geometric multigrid V-cycle.

The smoother is red-black Gauss-Seidel on the compact 7-point Laplacian with
a zero Dirichlet ghost layer. There is no convergence tolerance: the cycle
count is fixed and the final max-norm residual is reported to the caller,
which logs it and feeds it to the scheduler.
*/
package poisson

import (
	"math"

	"gonum.org/v1/gonum/floats"

	macflow "github.com/fluidlab/macflow"
	"github.com/fluidlab/macflow/grid"
	"github.com/fluidlab/macflow/ops"
)

const (
	// DefaultSmoothSweeps is the red-black sweep count before and after
	// each coarse-grid correction.
	DefaultSmoothSweeps = 3
	// DefaultCycles is the number of V-cycles per solve.
	DefaultCycles = 2
	// coarsestMinSweeps floors the sweep count on the bottom level.
	coarsestMinSweeps = 20
)

type level struct {
	g             *grid.Grid
	phi, rhs, res *grid.Scalar
}

// Solver holds the level hierarchy for one grid. A Solver is reusable
// across solves on the same grid but is not safe for concurrent use.
type Solver struct {
	levels []*level

	// SmoothSweeps and Cycles may be adjusted between solves.
	SmoothSweeps int
	Cycles       int
}

// NewSolver builds a solver with depth levels, the first matching g. Every
// level below the top halves the cell counts, so each interior dimension
// must be divisible by 2^(depth-1); a grid that cannot support the
// requested depth is a configuration error.
func NewSolver(g *grid.Grid, depth int) (*Solver, error) {
	if depth < 1 {
		return nil, macflow.Configf("multigrid depth must be >= 1, got %d", depth)
	}

	s := &Solver{
		SmoothSweeps: DefaultSmoothSweeps,
		Cycles:       DefaultCycles,
	}
	cur := g
	for l := 0; l < depth; l++ {
		s.levels = append(s.levels, &level{
			g:   cur,
			phi: grid.NewScalar(cur),
			rhs: grid.NewScalar(cur),
			res: grid.NewScalar(cur),
		})
		if l == depth-1 {
			break
		}
		next, err := cur.Coarsen()
		if err != nil {
			return nil, macflow.Configf(
				"multigrid depth %d unsupported at level %d: %dx%dx%d has an odd dimension",
				depth, l, cur.Nx, cur.Ny, cur.Nz,
			)
		}
		cur = next
	}
	return s, nil
}

// Depth returns the number of levels.
func (s *Solver) Depth() int { return len(s.levels) }

// Solve runs the configured number of V-cycles on lap(phi) = rhs starting
// from a zero initial guess and writes the solution into phi with a zero
// ghost layer, matching the Dirichlet padding the smoother assumed. The
// returned value is the max-norm interior residual after the last cycle.
func (s *Solver) Solve(rhs, phi *grid.Scalar) (float64, error) {
	top := s.levels[0]
	if err := top.rhs.CopyFrom(rhs); err != nil {
		return 0, err
	}
	top.rhs.ZeroGhosts()
	top.phi.Fill(0)

	for c := 0; c < s.Cycles; c++ {
		s.cycle(0)
	}

	if err := phi.CopyFrom(top.phi); err != nil {
		return 0, err
	}
	return s.residual(top), nil
}

func (s *Solver) cycle(l int) {
	lv := s.levels[l]

	if l == len(s.levels)-1 {
		n := coarsestMinSweeps
		if s.SmoothSweeps > n {
			n = s.SmoothSweeps
		}
		for sw := 0; sw < n; sw++ {
			s.smoothOnce(lv)
		}
		return
	}

	for sw := 0; sw < s.SmoothSweeps; sw++ {
		s.smoothOnce(lv)
	}

	coarse := s.levels[l+1]
	restrictResidual(lv, coarse)
	coarse.phi.Fill(0)
	s.cycle(l + 1)
	prolongate(coarse, lv)

	for sw := 0; sw < s.SmoothSweeps; sw++ {
		s.smoothOnce(lv)
	}
}

// smoothOnce runs one red-black Gauss-Seidel sweep. Cells of one color only
// read cells of the other, so each color pass parallelizes freely over
// planes; ForEachPlane's completion is the barrier between colors.
func (s *Solver) smoothOnce(lv *level) {
	g := lv.g
	ix2, iy2, iz2 := 1/(g.Dx*g.Dx), 1/(g.Dy*g.Dy), 1/(g.Dz*g.Dz)
	invDenom := 1 / (2*ix2 + 2*iy2 + 2*iz2)
	phi, rhs := lv.phi, lv.rhs

	for color := 0; color < 2; color++ {
		ops.ForEachPlane(1, g.Nz+1, func(k int) {
			for j := 1; j <= g.Ny; j++ {
				row := phi.Row(j, k)
				rowYM, rowYP := phi.Row(j-1, k), phi.Row(j+1, k)
				rowZM, rowZP := phi.Row(j, k-1), phi.Row(j, k+1)
				rhsRow := rhs.Row(j, k)

				start := 1
				if (start+j+k)%2 != color {
					start = 2
				}
				for i := start; i <= g.Nx; i += 2 {
					nb := (row[i-1]+row[i+1])*ix2 +
						(rowYM[i]+rowYP[i])*iy2 +
						(rowZM[i]+rowZP[i])*iz2
					row[i] = (nb - rhsRow[i]) * invDenom
				}
			}
		})
	}
}

// restrictResidual computes rhs - lap(phi) on fine and injects it onto
// coarse.rhs, sampling the lower-corner fine child of each coarse cell.
func restrictResidual(fine, coarse *level) {
	g := fine.g
	ops.Laplacian(g, fine.phi, fine.res)
	ops.ForEachPlane(1, g.Nz+1, func(k int) {
		for j := 1; j <= g.Ny; j++ {
			resRow, rhsRow := fine.res.Row(j, k), fine.rhs.Row(j, k)
			for i := 1; i <= g.Nx; i++ {
				resRow[i] = rhsRow[i] - resRow[i]
			}
		}
	})

	cg := coarse.g
	ops.ForEachPlane(1, cg.Nz+1, func(K int) {
		for J := 1; J <= cg.Ny; J++ {
			out := coarse.rhs.Row(J, K)
			in := fine.res.Row(2*J-1, 2*K-1)
			for I := 1; I <= cg.Nx; I++ {
				out[I] = in[2*I-1]
			}
		}
	})
}

// prolongate distributes each coarse correction equally over the eight
// fine children it covers.
func prolongate(coarse, fine *level) {
	cg := coarse.g
	ops.ForEachPlane(1, cg.Nz+1, func(K int) {
		for J := 1; J <= cg.Ny; J++ {
			for I := 1; I <= cg.Nx; I++ {
				c := coarse.phi.At(I, J, K) * 0.125
				for dk := 0; dk < 2; dk++ {
					for dj := 0; dj < 2; dj++ {
						row := fine.phi.Row(2*J-1+dj, 2*K-1+dk)
						row[2*I-1] += c
						row[2*I] += c
					}
				}
			}
		}
	})
}

func (s *Solver) residual(lv *level) float64 {
	g := lv.g
	ops.Laplacian(g, lv.phi, lv.res)
	max := 0.0
	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			resRow, rhsRow := lv.res.Row(j, k), lv.rhs.Row(j, k)
			for i := 1; i <= g.Nx; i++ {
				resRow[i] = rhsRow[i] - resRow[i]
			}
			if m := floats.Norm(lv.res.InteriorRow(j, k), math.Inf(1)); m > max {
				max = m
			}
		}
	}
	return max
}
