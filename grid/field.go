package grid

import (
	"math"

	macflow "github.com/fluidlab/macflow"
)

// Scalar is a cell-centered field stored in a single flat slice with one
// ghost layer on every boundary. Indexing is x-fastest: the flat index of
// cell (i, j, k) is i + j*sx + k*sy with sx and sy the row and plane
// strides. Indices 0 and N+1 along each axis are ghosts.
type Scalar struct {
	Data       []float64
	Nx, Ny, Nz int // padded dimensions, interior + 2
	sx, sy     int
}

// NewScalar allocates a zeroed field matching g, ghosts included.
func NewScalar(g *Grid) *Scalar {
	nx, ny, nz := g.PaddedDims()
	return &Scalar{
		Data: make([]float64, nx*ny*nz),
		Nx:   nx, Ny: ny, Nz: nz,
		sx: nx, sy: nx * ny,
	}
}

// Idx returns the flat index of (i, j, k). Callers iterating hot loops
// should compute row offsets once and index Data directly instead.
func (s *Scalar) Idx(i, j, k int) int {
	return i + j*s.sx + k*s.sy
}

// At returns the value at (i, j, k).
func (s *Scalar) At(i, j, k int) float64 {
	return s.Data[i+j*s.sx+k*s.sy]
}

// Set stores v at (i, j, k).
func (s *Scalar) Set(i, j, k int, v float64) {
	s.Data[i+j*s.sx+k*s.sy] = v
}

// Row returns the contiguous x-run of the padded row (j, k), ghosts
// included. The returned slice aliases Data.
func (s *Scalar) Row(j, k int) []float64 {
	off := j*s.sx + k*s.sy
	return s.Data[off : off+s.Nx]
}

// InteriorRow returns the interior x-run of row (j, k), ghosts excluded.
func (s *Scalar) InteriorRow(j, k int) []float64 {
	off := GhostWidth + j*s.sx + k*s.sy
	return s.Data[off : off+s.Nx-2*GhostWidth]
}

// SameShape reports whether t has the same padded dimensions as s.
func (s *Scalar) SameShape(t *Scalar) bool {
	return s.Nx == t.Nx && s.Ny == t.Ny && s.Nz == t.Nz
}

// Fill sets every element, ghosts included, to v.
func (s *Scalar) Fill(v float64) {
	for i := range s.Data {
		s.Data[i] = v
	}
}

// Clone returns a deep copy of s.
func (s *Scalar) Clone() *Scalar {
	out := &Scalar{
		Data: make([]float64, len(s.Data)),
		Nx:   s.Nx, Ny: s.Ny, Nz: s.Nz,
		sx: s.sx, sy: s.sy,
	}
	copy(out.Data, s.Data)
	return out
}

// CopyFrom overwrites s with the contents of t. The shapes must match.
func (s *Scalar) CopyFrom(t *Scalar) error {
	if !s.SameShape(t) {
		return macflow.Configf(
			"field shape mismatch: %dx%dx%d vs %dx%dx%d",
			s.Nx, s.Ny, s.Nz, t.Nx, t.Ny, t.Nz,
		)
	}
	copy(s.Data, t.Data)
	return nil
}

// Scale multiplies every element, ghosts included, by c.
func (s *Scalar) Scale(c float64) {
	for i := range s.Data {
		s.Data[i] *= c
	}
}

// HasInvalid reports whether any element is NaN or Inf.
func (s *Scalar) HasInvalid() bool {
	for _, v := range s.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// FillGhostNeumann copies the adjacent interior value into every ghost
// cell, giving a zero-normal-derivative extension of the interior. Edge
// and corner ghosts pick up the value of the face pass that runs last,
// which is fine for the compact stencils used here.
func (s *Scalar) FillGhostNeumann() {
	lo, hix := GhostWidth, s.Nx-GhostWidth-1
	hiy, hiz := s.Ny-GhostWidth-1, s.Nz-GhostWidth-1
	for k := 0; k < s.Nz; k++ {
		for j := 0; j < s.Ny; j++ {
			row := s.Row(j, k)
			row[lo-1] = row[lo]
			row[hix+1] = row[hix]
		}
	}
	for k := 0; k < s.Nz; k++ {
		copy(s.Row(lo-1, k), s.Row(lo, k))
		copy(s.Row(hiy+1, k), s.Row(hiy, k))
	}
	for j := 0; j < s.Ny; j++ {
		copy(s.Row(j, lo-1), s.Row(j, lo))
		copy(s.Row(j, hiz+1), s.Row(j, hiz))
	}
}

// ZeroGhosts clears the ghost layer without touching the interior.
func (s *Scalar) ZeroGhosts() {
	lo, hix := GhostWidth, s.Nx-GhostWidth-1
	hiy, hiz := s.Ny-GhostWidth-1, s.Nz-GhostWidth-1
	for k := 0; k < s.Nz; k++ {
		for j := 0; j < s.Ny; j++ {
			row := s.Row(j, k)
			row[lo-1] = 0
			row[hix+1] = 0
		}
	}
	zero := func(row []float64) {
		for i := range row {
			row[i] = 0
		}
	}
	for k := 0; k < s.Nz; k++ {
		zero(s.Row(lo-1, k))
		zero(s.Row(hiy+1, k))
	}
	for j := 0; j < s.Ny; j++ {
		zero(s.Row(j, lo-1))
		zero(s.Row(j, hiz+1))
	}
}

// Velocity is the staggered velocity field: one Scalar per component, each
// with the same padded shape as a cell-centered field. The value stored at
// cell (i, j, k) of component a lives on the face half a cell up from the
// center along a.
type Velocity struct {
	U, V, W *Scalar
}

// NewVelocity allocates a zeroed velocity field on g.
func NewVelocity(g *Grid) *Velocity {
	return &Velocity{U: NewScalar(g), V: NewScalar(g), W: NewScalar(g)}
}

// Component returns the Scalar holding the component along a.
func (v *Velocity) Component(a macflow.Axis) *Scalar {
	switch a {
	case macflow.X:
		return v.U
	case macflow.Y:
		return v.V
	}
	return v.W
}

// Clone returns a deep copy of v.
func (v *Velocity) Clone() *Velocity {
	return &Velocity{U: v.U.Clone(), V: v.V.Clone(), W: v.W.Clone()}
}

// CopyFrom overwrites v with the contents of t.
func (v *Velocity) CopyFrom(t *Velocity) error {
	if err := v.U.CopyFrom(t.U); err != nil {
		return err
	}
	if err := v.V.CopyFrom(t.V); err != nil {
		return err
	}
	return v.W.CopyFrom(t.W)
}

// SetUniform sets all three components, ghosts included.
func (v *Velocity) SetUniform(ux, uy, uz float64) {
	v.U.Fill(ux)
	v.V.Fill(uy)
	v.W.Fill(uz)
}

// Scale multiplies all three components by c.
func (v *Velocity) Scale(c float64) {
	v.U.Scale(c)
	v.V.Scale(c)
	v.W.Scale(c)
}

// HasInvalid reports whether any component holds a NaN or Inf.
func (v *Velocity) HasInvalid() bool {
	return v.U.HasInvalid() || v.V.HasInvalid() || v.W.HasInvalid()
}
