package fluid

import (
	"math"

	"github.com/sgshea/fluidsim/internal/field"
)

// MaxDivergence returns the maximum absolute discrete divergence over the
// interior cells. After project this is bounded by what the fixed Jacobi
// budget achieves.
func (s *Sim) MaxDivergence() float64 {
	g := s.grid
	u, v := s.vel.U.Cur(), s.vel.V.Cur()
	maxDiv := 0.0
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			i := g.Idx(x, y)
			if s.mask[i] == solid {
				continue
			}
			div := u[g.Idx(x+1, y)] - u[i] + v[g.Idx(x, y+1)] - v[i]
			if a := math.Abs(div); a > maxDiv {
				maxDiv = a
			}
		}
	}
	return maxDiv
}

// KineticEnergy sums 0.5*|v|^2 over all cells.
func (s *Sim) KineticEnergy() float64 {
	u, v := s.vel.U.Cur(), s.vel.V.Cur()
	total := 0.0
	for i := range u {
		total += 0.5 * (u[i]*u[i] + v[i]*v[i])
	}
	return total
}

// TotalDye sums the dye field over all cells.
func (s *Sim) TotalDye() float64 {
	return s.dye.Sum()
}

// VelocityMagnitude returns |v| per cell as a fresh scalar field, for
// rendering.
func (s *Sim) VelocityMagnitude() *field.Scalar {
	g := s.grid
	f := field.NewScalar(g)
	u, v := s.vel.U.Cur(), s.vel.V.Cur()
	out := f.Cur()
	for i := range out {
		out[i] = math.Hypot(u[i], v[i])
	}
	return f
}
