package ops

import (
	macflow "github.com/fluidlab/macflow"
	"github.com/fluidlab/macflow/grid"
)

// Divergence writes the discrete divergence of vel into out at every
// interior cell and zeroes the ghost layer of out. On the staggered grid
// the divergence at cell i is the difference of the two faces bracketing
// it, (u[i] - u[i-1]) / dx, which is a central difference about the cell
// center.
func Divergence(g *grid.Grid, vel *grid.Velocity, out *grid.Scalar) {
	idx, idy, idz := 1/g.Dx, 1/g.Dy, 1/g.Dz
	u, v, w := vel.U, vel.V, vel.W

	ForEachPlane(1, g.Nz+1, func(k int) {
		for j := 1; j <= g.Ny; j++ {
			uRow := u.Row(j, k)
			vRow, vRowM := v.Row(j, k), v.Row(j-1, k)
			wRow, wRowM := w.Row(j, k), w.Row(j, k-1)
			outRow := out.Row(j, k)
			for i := 1; i <= g.Nx; i++ {
				outRow[i] = (uRow[i]-uRow[i-1])*idx +
					(vRow[i]-vRowM[i])*idy +
					(wRow[i]-wRowM[i])*idz
			}
		}
	})
	out.ZeroGhosts()
}

// SubtractGradient applies vel -= scale * grad(phi) on every face the
// interior divergence reads, boundary faces included. The face gradient is
// the forward difference of the two cells the face separates, so composing
// it with Divergence reproduces the compact 7-point Laplacian exactly.
// Callers pass phi with the ghost values the Poisson operator assumed.
func SubtractGradient(
	g *grid.Grid, phi *grid.Scalar, scale float64, vel *grid.Velocity,
) {
	cx, cy, cz := scale/g.Dx, scale/g.Dy, scale/g.Dz
	u, v, w := vel.U, vel.V, vel.W

	ForEachPlane(1, g.Nz+1, func(k int) {
		for j := 1; j <= g.Ny; j++ {
			pRow := phi.Row(j, k)
			uRow := u.Row(j, k)
			for i := 0; i <= g.Nx; i++ {
				uRow[i] -= cx * (pRow[i+1] - pRow[i])
			}
		}
	})
	ForEachPlane(1, g.Nz+1, func(k int) {
		for j := 0; j <= g.Ny; j++ {
			pRow, pRowP := phi.Row(j, k), phi.Row(j+1, k)
			vRow := v.Row(j, k)
			for i := 1; i <= g.Nx; i++ {
				vRow[i] -= cy * (pRowP[i] - pRow[i])
			}
		}
	})
	ForEachPlane(0, g.Nz+1, func(k int) {
		for j := 1; j <= g.Ny; j++ {
			pRow, pRowP := phi.Row(j, k), phi.Row(j, k+1)
			wRow := w.Row(j, k)
			for i := 1; i <= g.Nx; i++ {
				wRow[i] -= cz * (pRowP[i] - pRow[i])
			}
		}
	})
}

// Laplacian writes the 7-point Laplacian of s into out at every interior
// cell, reading one ghost layer.
func Laplacian(g *grid.Grid, s, out *grid.Scalar) {
	ix2, iy2, iz2 := 1/(g.Dx*g.Dx), 1/(g.Dy*g.Dy), 1/(g.Dz*g.Dz)

	ForEachPlane(1, g.Nz+1, func(k int) {
		for j := 1; j <= g.Ny; j++ {
			row := s.Row(j, k)
			rowYM, rowYP := s.Row(j-1, k), s.Row(j+1, k)
			rowZM, rowZP := s.Row(j, k-1), s.Row(j, k+1)
			outRow := out.Row(j, k)
			for i := 1; i <= g.Nx; i++ {
				outRow[i] = (row[i+1]-2*row[i]+row[i-1])*ix2 +
					(rowYP[i]-2*row[i]+rowYM[i])*iy2 +
					(rowZP[i]-2*row[i]+rowZM[i])*iz2
			}
		}
	})
}

// Advection writes the convective term (u . grad) u into out at every
// interior index of each component. Derivatives are central differences at
// the component's own face; the two components not aligned with the face
// are collocated onto it by averaging the four surrounding face values.
func Advection(g *grid.Grid, vel *grid.Velocity, out *grid.Velocity) {
	i2x, i2y, i2z := 0.5/g.Dx, 0.5/g.Dy, 0.5/g.Dz
	u, v, w := vel.U, vel.V, vel.W

	ForEachPlane(1, g.Nz+1, func(k int) {
		for j := 1; j <= g.Ny; j++ {
			for i := 1; i <= g.Nx; i++ {
				uc := u.At(i, j, k)
				vAtU := 0.25 * (v.At(i, j-1, k) + v.At(i, j, k) +
					v.At(i+1, j-1, k) + v.At(i+1, j, k))
				wAtU := 0.25 * (w.At(i, j, k-1) + w.At(i, j, k) +
					w.At(i+1, j, k-1) + w.At(i+1, j, k))
				out.U.Set(i, j, k,
					uc*(u.At(i+1, j, k)-u.At(i-1, j, k))*i2x+
						vAtU*(u.At(i, j+1, k)-u.At(i, j-1, k))*i2y+
						wAtU*(u.At(i, j, k+1)-u.At(i, j, k-1))*i2z)

				vc := v.At(i, j, k)
				uAtV := 0.25 * (u.At(i-1, j, k) + u.At(i, j, k) +
					u.At(i-1, j+1, k) + u.At(i, j+1, k))
				wAtV := 0.25 * (w.At(i, j, k-1) + w.At(i, j, k) +
					w.At(i, j+1, k-1) + w.At(i, j+1, k))
				out.V.Set(i, j, k,
					uAtV*(v.At(i+1, j, k)-v.At(i-1, j, k))*i2x+
						vc*(v.At(i, j+1, k)-v.At(i, j-1, k))*i2y+
						wAtV*(v.At(i, j, k+1)-v.At(i, j, k-1))*i2z)

				wc := w.At(i, j, k)
				uAtW := 0.25 * (u.At(i-1, j, k) + u.At(i, j, k) +
					u.At(i-1, j, k+1) + u.At(i, j, k+1))
				vAtW := 0.25 * (v.At(i, j-1, k) + v.At(i, j, k) +
					v.At(i, j-1, k+1) + v.At(i, j, k+1))
				out.W.Set(i, j, k,
					uAtW*(w.At(i+1, j, k)-w.At(i-1, j, k))*i2x+
						vAtW*(w.At(i, j+1, k)-w.At(i, j-1, k))*i2y+
						wc*(w.At(i, j, k+1)-w.At(i, j, k-1))*i2z)
			}
		}
	})
}

// Axes lists the three axes in velocity component order.
var Axes = [3]macflow.Axis{macflow.X, macflow.Y, macflow.Z}
