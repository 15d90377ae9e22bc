/*package grid provides the staggered MAC grid geometry and the ghost-padded
scalar and velocity fields defined on it.

Interior cells are indexed 1..N along each axis; index 0 and N+1 are the
ghost layer. Velocity components are staggered one half cell along their own
axis, so the value stored at cell index i of the x component lives on the
face between cells i and i+1. All fields share the same padded shape, which
keeps boundary-condition and stencil code free of per-field special cases.
*/
package grid

import (
	macflow "github.com/fluidlab/macflow"
)

// GhostWidth is the number of padding layers on every boundary.
const GhostWidth = 1

// Grid is the immutable description of the simulation domain: interior cell
// counts, spacings and the position of the lower domain corner.
type Grid struct {
	Nx, Ny, Nz int
	Dx, Dy, Dz float64
	Origin     [3]float64
}

// New returns a Grid after validating cell counts and spacings.
func New(nx, ny, nz int, dx, dy, dz float64) (*Grid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, macflow.Configf(
			"grid dimensions must be positive, got %dx%dx%d", nx, ny, nz,
		)
	}
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return nil, macflow.Configf(
			"grid spacings must be positive, got (%g, %g, %g)", dx, dy, dz,
		)
	}
	return &Grid{Nx: nx, Ny: ny, Nz: nz, Dx: dx, Dy: dy, Dz: dz}, nil
}

// Cells returns the interior cell count along a.
func (g *Grid) Cells(a macflow.Axis) int {
	switch a {
	case macflow.X:
		return g.Nx
	case macflow.Y:
		return g.Ny
	}
	return g.Nz
}

// Spacing returns the cell spacing along a.
func (g *Grid) Spacing(a macflow.Axis) float64 {
	switch a {
	case macflow.X:
		return g.Dx
	case macflow.Y:
		return g.Dy
	}
	return g.Dz
}

// MinSpacing returns the smallest of the three spacings.
func (g *Grid) MinSpacing() float64 {
	min := g.Dx
	if g.Dy < min {
		min = g.Dy
	}
	if g.Dz < min {
		min = g.Dz
	}
	return min
}

// CellVolume returns the volume of a single cell.
func (g *Grid) CellVolume() float64 {
	return g.Dx * g.Dy * g.Dz
}

// InteriorCells returns the total number of interior cells.
func (g *Grid) InteriorCells() int {
	return g.Nx * g.Ny * g.Nz
}

// PaddedDims returns the per-axis array dimensions including ghosts.
func (g *Grid) PaddedDims() (nx, ny, nz int) {
	return g.Nx + 2*GhostWidth, g.Ny + 2*GhostWidth, g.Nz + 2*GhostWidth
}

// Coarsen returns the grid one multigrid level below this one: half the
// cells, twice the spacing along every axis. It fails when any dimension is
// not evenly divisible by two.
func (g *Grid) Coarsen() (*Grid, error) {
	if g.Nx%2 != 0 || g.Ny%2 != 0 || g.Nz%2 != 0 {
		return nil, macflow.Configf(
			"grid %dx%dx%d cannot be coarsened by 2", g.Nx, g.Ny, g.Nz,
		)
	}
	c, err := New(g.Nx/2, g.Ny/2, g.Nz/2, 2*g.Dx, 2*g.Dy, 2*g.Dz)
	if err != nil {
		return nil, err
	}
	c.Origin = g.Origin
	return c, nil
}
