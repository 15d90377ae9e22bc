package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	macflow "github.com/fluidlab/macflow"
)

func TestNewRejectsBadDimensions(t *testing.T) {
	table := []struct {
		nx, ny, nz int
		dx, dy, dz float64
	}{
		{0, 4, 4, 0.1, 0.1, 0.1},
		{4, -1, 4, 0.1, 0.1, 0.1},
		{4, 4, 4, 0, 0.1, 0.1},
		{4, 4, 4, 0.1, 0.1, -0.5},
	}

	for i, tc := range table {
		_, err := New(tc.nx, tc.ny, tc.nz, tc.dx, tc.dy, tc.dz)
		if err == nil {
			t.Errorf("%d) New(%d, %d, %d, %g, %g, %g) succeeded.",
				i, tc.nx, tc.ny, tc.nz, tc.dx, tc.dy, tc.dz)
			continue
		}
		if _, ok := err.(*macflow.ConfigurationError); !ok {
			t.Errorf("%d) got error type %T, not ConfigurationError.", i, err)
		}
	}
}

func TestGridAccessors(t *testing.T) {
	g, err := New(8, 4, 2, 0.5, 0.25, 1.0)
	assert.NoError(t, err)

	assert.Equal(t, 8, g.Cells(macflow.X))
	assert.Equal(t, 4, g.Cells(macflow.Y))
	assert.Equal(t, 2, g.Cells(macflow.Z))
	assert.Equal(t, 0.25, g.Spacing(macflow.Y))
	assert.Equal(t, 0.25, g.MinSpacing())
	assert.Equal(t, 0.125, g.CellVolume())
	assert.Equal(t, 64, g.InteriorCells())

	nx, ny, nz := g.PaddedDims()
	assert.Equal(t, []int{10, 6, 4}, []int{nx, ny, nz})
}

func TestCoarsen(t *testing.T) {
	g, _ := New(8, 8, 8, 0.1, 0.1, 0.1)
	c, err := g.Coarsen()
	assert.NoError(t, err)
	assert.Equal(t, 4, c.Nx)
	assert.Equal(t, 0.2, c.Dx)

	odd, _ := New(6, 5, 6, 0.1, 0.1, 0.1)
	_, err = odd.Coarsen()
	assert.Error(t, err)
}

func TestScalarIndexing(t *testing.T) {
	g, _ := New(4, 3, 2, 0.1, 0.1, 0.1)
	s := NewScalar(g)

	s.Set(2, 1, 3, 7.5)
	assert.Equal(t, 7.5, s.At(2, 1, 3))
	assert.Equal(t, 7.5, s.Data[s.Idx(2, 1, 3)])
	assert.Equal(t, 7.5, s.Row(1, 3)[2])

	in := s.InteriorRow(1, 3)
	assert.Equal(t, g.Nx, len(in))
	assert.Equal(t, 7.5, in[1])
}

func TestFillGhostNeumann(t *testing.T) {
	g, _ := New(3, 3, 3, 0.1, 0.1, 0.1)
	s := NewScalar(g)
	for k := 1; k <= 3; k++ {
		for j := 1; j <= 3; j++ {
			for i := 1; i <= 3; i++ {
				s.Set(i, j, k, float64(100*i+10*j+k))
			}
		}
	}
	s.FillGhostNeumann()

	assert.Equal(t, s.At(1, 2, 2), s.At(0, 2, 2))
	assert.Equal(t, s.At(3, 2, 2), s.At(4, 2, 2))
	assert.Equal(t, s.At(2, 1, 2), s.At(2, 0, 2))
	assert.Equal(t, s.At(2, 3, 2), s.At(2, 4, 2))
	assert.Equal(t, s.At(2, 2, 1), s.At(2, 2, 0))
	assert.Equal(t, s.At(2, 2, 3), s.At(2, 2, 4))
}

func TestZeroGhostsKeepsInterior(t *testing.T) {
	g, _ := New(3, 3, 3, 0.1, 0.1, 0.1)
	s := NewScalar(g)
	s.Fill(2.0)
	s.ZeroGhosts()

	assert.Equal(t, 2.0, s.At(2, 2, 2))
	assert.Equal(t, 0.0, s.At(0, 2, 2))
	assert.Equal(t, 0.0, s.At(2, 4, 2))
	assert.Equal(t, 0.0, s.At(2, 2, 0))
	assert.Equal(t, 0.0, s.At(0, 0, 0))
}

func TestCloneIsDeep(t *testing.T) {
	g, _ := New(2, 2, 2, 0.1, 0.1, 0.1)
	s := NewScalar(g)
	s.Set(1, 1, 1, 3.0)
	c := s.Clone()
	s.Set(1, 1, 1, -1.0)
	assert.Equal(t, 3.0, c.At(1, 1, 1))
}

func TestCopyFromShapeMismatch(t *testing.T) {
	g1, _ := New(2, 2, 2, 0.1, 0.1, 0.1)
	g2, _ := New(4, 2, 2, 0.1, 0.1, 0.1)
	err := NewScalar(g1).CopyFrom(NewScalar(g2))
	assert.Error(t, err)
	_, ok := err.(*macflow.ConfigurationError)
	assert.True(t, ok)
}

func TestHasInvalid(t *testing.T) {
	g, _ := New(2, 2, 2, 0.1, 0.1, 0.1)
	v := NewVelocity(g)
	assert.False(t, v.HasInvalid())
	v.V.Set(1, 1, 1, math.NaN())
	assert.True(t, v.HasInvalid())
	v.V.Set(1, 1, 1, math.Inf(1))
	assert.True(t, v.HasInvalid())
}

func TestVelocityScaleAndUniform(t *testing.T) {
	g, _ := New(2, 2, 2, 0.1, 0.1, 0.1)
	v := NewVelocity(g)
	v.SetUniform(1, 2, 3)
	v.Scale(0.5)
	assert.Equal(t, 0.5, v.U.At(1, 1, 1))
	assert.Equal(t, 1.0, v.Component(macflow.Y).At(2, 2, 2))
	assert.Equal(t, 1.5, v.W.At(1, 2, 1))
}

func TestArenaNeighborFallback(t *testing.T) {
	g, _ := New(2, 2, 2, 0.1, 0.1, 0.1)
	a := NewArena(g)

	c := a.Idx(1, 1, 1)
	assert.Equal(t, a.Idx(0, 1, 1), a.Neighbor(c, XMinus))
	assert.Equal(t, a.Idx(1, 2, 1), a.Neighbor(c, YPlus))
	assert.Equal(t, a.Idx(1, 1, 0), a.Neighbor(c, ZMinus))

	i, j, k := a.Coords(a.Neighbor(c, XPlus))
	assert.Equal(t, []int{2, 1, 1}, []int{i, j, k})

	corner := a.Idx(0, 0, 0)
	assert.Equal(t, corner, a.Neighbor(corner, XMinus))
	assert.Equal(t, corner, a.Neighbor(corner, YMinus))
	assert.Equal(t, a.Idx(1, 0, 0), a.Neighbor(corner, XPlus))

	far := a.Idx(3, 3, 3)
	assert.Equal(t, far, a.Neighbor(far, XPlus))
	assert.Equal(t, far, a.Neighbor(far, ZPlus))

	assert.Equal(t, XPlus, XMinus.Inward())
	assert.Equal(t, ZMinus, ZPlus.Inward())
}
