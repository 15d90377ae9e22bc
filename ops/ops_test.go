package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fluidlab/macflow/grid"
)

func testGrid(t *testing.T, n int, h float64) *grid.Grid {
	g, err := grid.New(n, n, n, h, h, h)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	return g
}

func TestDivergenceOfUniformFieldIsZero(t *testing.T) {
	g := testGrid(t, 4, 0.25)
	vel := grid.NewVelocity(g)
	vel.SetUniform(1.5, -0.75, 2.0)

	div := grid.NewScalar(g)
	Divergence(g, vel, div)

	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			for i := 1; i <= g.Nx; i++ {
				if div.At(i, j, k) != 0 {
					t.Errorf("div(%d, %d, %d) = %g, want 0.",
						i, j, k, div.At(i, j, k))
				}
			}
		}
	}
}

func TestDivergenceOfLinearRamp(t *testing.T) {
	g := testGrid(t, 4, 0.5)
	vel := grid.NewVelocity(g)
	a := 0.3
	for k := 0; k < vel.U.Nz; k++ {
		for j := 0; j < vel.U.Ny; j++ {
			for i := 0; i < vel.U.Nx; i++ {
				vel.U.Set(i, j, k, a*float64(i))
			}
		}
	}

	div := grid.NewScalar(g)
	Divergence(g, vel, div)

	want := a / g.Dx
	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			for i := 1; i <= g.Nx; i++ {
				assert.InDelta(t, want, div.At(i, j, k), 1e-12)
			}
		}
	}
}

// The divergence of the face gradient of a zero-ghost scalar must match the
// compact 7-point Laplacian with zero Dirichlet padding. This compatibility
// is what makes a projection pass remove exactly the divergence the Poisson
// solve accounted for.
func TestGradientDivergenceComposition(t *testing.T) {
	g := testGrid(t, 4, 0.25)
	phi := grid.NewScalar(g)
	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			for i := 1; i <= g.Nx; i++ {
				phi.Set(i, j, k, math.Sin(float64(i*3+j*7+k*11)))
			}
		}
	}

	vel := grid.NewVelocity(g)
	SubtractGradient(g, phi, -1, vel)

	div := grid.NewScalar(g)
	Divergence(g, vel, div)

	lap := grid.NewScalar(g)
	Laplacian(g, phi, lap)

	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			for i := 1; i <= g.Nx; i++ {
				assert.InDelta(t, lap.At(i, j, k), div.At(i, j, k), 1e-11)
			}
		}
	}
}

func TestLaplacianOfLinearFieldIsZero(t *testing.T) {
	g := testGrid(t, 4, 0.5)
	s := grid.NewScalar(g)
	for k := 0; k < s.Nz; k++ {
		for j := 0; j < s.Ny; j++ {
			for i := 0; i < s.Nx; i++ {
				s.Set(i, j, k, 2*float64(i)-float64(j)+0.5*float64(k))
			}
		}
	}

	out := grid.NewScalar(g)
	Laplacian(g, s, out)
	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			for i := 1; i <= g.Nx; i++ {
				assert.InDelta(t, 0, out.At(i, j, k), 1e-12)
			}
		}
	}
}

func TestAdvectionOfUniformFieldIsZero(t *testing.T) {
	g := testGrid(t, 4, 0.25)
	vel := grid.NewVelocity(g)
	vel.SetUniform(1.0, -2.0, 0.5)

	out := grid.NewVelocity(g)
	Advection(g, vel, out)
	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			for i := 1; i <= g.Nx; i++ {
				assert.Equal(t, 0.0, out.U.At(i, j, k))
				assert.Equal(t, 0.0, out.V.At(i, j, k))
				assert.Equal(t, 0.0, out.W.At(i, j, k))
			}
		}
	}
}

func TestAdvectionCrossTerm(t *testing.T) {
	// u varies linearly in y while v is uniform, so the only nonzero term
	// of (u . grad)u is v * du/dy = v0 / dy.
	g := testGrid(t, 4, 0.5)
	vel := grid.NewVelocity(g)
	v0 := 0.8
	vel.V.Fill(v0)
	for k := 0; k < vel.U.Nz; k++ {
		for j := 0; j < vel.U.Ny; j++ {
			for i := 0; i < vel.U.Nx; i++ {
				vel.U.Set(i, j, k, float64(j))
			}
		}
	}

	out := grid.NewVelocity(g)
	Advection(g, vel, out)
	assert.InDelta(t, v0/g.Dy, out.U.At(2, 2, 2), 1e-12)
}

func TestReductionsIgnoreGhosts(t *testing.T) {
	g := testGrid(t, 2, 0.1)
	s := grid.NewScalar(g)
	s.Fill(1e30)
	s.ZeroGhosts()
	for k := 1; k <= 2; k++ {
		for j := 1; j <= 2; j++ {
			for i := 1; i <= 2; i++ {
				s.Set(i, j, k, -2.0)
			}
		}
	}
	s.Set(1, 2, 1, 5.0)

	assert.Equal(t, 5.0, MaxAbsInterior(g, s))
	assert.InDelta(t, (7*2.0+5.0)/8, MeanAbsInterior(g, s), 1e-12)
}

func TestCFLMatchesDefinition(t *testing.T) {
	g, err := grid.New(4, 4, 4, 0.5, 0.25, 1.0)
	assert.NoError(t, err)

	vel := grid.NewVelocity(g)
	vel.SetUniform(2.0, -3.0, 1.0)
	dt := 0.1

	global, axis := CFL(g, vel, dt)
	assert.InDelta(t, 3.0*dt/0.25, global, 1e-12)
	assert.InDelta(t, 2.0*dt/0.5, axis[0], 1e-12)
	assert.InDelta(t, 3.0*dt/0.25, axis[1], 1e-12)
	assert.InDelta(t, 1.0*dt/1.0, axis[2], 1e-12)
}

func TestKineticEnergy(t *testing.T) {
	g := testGrid(t, 2, 0.5)
	vel := grid.NewVelocity(g)
	vel.SetUniform(1.0, 2.0, 3.0)

	rho := 2.0
	want := 0.5 * rho * (1.0 + 4.0 + 9.0) * g.CellVolume() * 8
	assert.InDelta(t, want, KineticEnergy(g, vel, rho), 1e-12)
}
