package grid

// Direction names one of the six face neighbors of a cell.
type Direction int

const (
	XMinus Direction = iota
	XPlus
	YMinus
	YPlus
	ZMinus
	ZPlus
	directionCount
)

// Inward returns the direction pointing from a ghost cell of this face
// toward the interior.
func (d Direction) Inward() Direction {
	if d%2 == 0 {
		return d + 1
	}
	return d - 1
}

// Arena precomputes flat-index neighbor tables for every padded cell of a
// grid. A cell on the outermost padded layer has no neighbor beyond it, and
// the table falls back to the cell's own index there, so lookups that walk
// neighbors never branch on boundaries and degrade to a zero-derivative
// extension at the array edge.
type Arena struct {
	g        *Grid
	nx, ny   int
	neighbor [directionCount][]int32
}

// NewArena builds the neighbor tables for g.
func NewArena(g *Grid) *Arena {
	nx, ny, nz := g.PaddedDims()
	n := nx * ny * nz
	a := &Arena{g: g, nx: nx, ny: ny}
	for d := range a.neighbor {
		a.neighbor[d] = make([]int32, n)
	}

	sx, sy := nx, nx*ny
	idx := 0
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				set := func(d Direction, ok bool, step int) {
					if ok {
						a.neighbor[d][idx] = int32(idx + step)
					} else {
						a.neighbor[d][idx] = int32(idx)
					}
				}
				set(XMinus, i > 0, -1)
				set(XPlus, i < nx-1, 1)
				set(YMinus, j > 0, -sx)
				set(YPlus, j < ny-1, sx)
				set(ZMinus, k > 0, -sy)
				set(ZPlus, k < nz-1, sy)
				idx++
			}
		}
	}
	return a
}

// Neighbor returns the flat index of the d-neighbor of the cell at flat
// index c, or c itself when the neighbor falls outside the padded array.
func (a *Arena) Neighbor(c int, d Direction) int {
	return int(a.neighbor[d][c])
}

// Idx returns the flat index of padded cell (i, j, k).
func (a *Arena) Idx(i, j, k int) int {
	return i + j*a.nx + k*a.nx*a.ny
}

// Coords inverts Idx.
func (a *Arena) Coords(c int) (i, j, k int) {
	return c % a.nx, (c / a.nx) % a.ny, c / (a.nx * a.ny)
}

// Grid returns the grid the arena was built for.
func (a *Arena) Grid() *Grid { return a.g }
