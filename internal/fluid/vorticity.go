package fluid

import (
	"math"

	"github.com/sgshea/fluidsim/internal/field"
)

// curl computes dv/dx - du/dy at every interior cell into the provided
// buffer.
func (s *Sim) curl(out []float64) {
	g := s.grid
	u, v := s.vel.U.Cur(), s.vel.V.Cur()
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			i := g.Idx(x, y)
			if s.mask[i] == solid {
				out[i] = 0
				continue
			}
			dvdx := 0.5 * (v[g.Idx(x+1, y)] - v[g.Idx(x-1, y)])
			dudy := 0.5 * (u[g.Idx(x, y+1)] - u[g.Idx(x, y-1)])
			out[i] = dvdx - dudy
		}
	}
}

// Vorticity returns the curl of the velocity field as a fresh scalar field.
func (s *Sim) Vorticity() *field.Scalar {
	f := field.NewScalar(s.grid)
	s.curl(f.Cur())
	return f
}

// confineVorticity pushes velocity toward local curl maxima, restoring
// small swirls that semi-Lagrangian advection dissipates. Strength comes
// from the Confinement config value.
func (s *Sim) confineVorticity(dt float64) {
	g := s.grid
	s.curl(s.x0)
	curl := s.x0
	u, v := s.vel.U.Cur(), s.vel.V.Cur()

	const eps = 1e-5
	strength := s.cfg.Confinement * dt

	for y := 2; y < g.Height-2; y++ {
		for x := 2; x < g.Width-2; x++ {
			i := g.Idx(x, y)
			if s.mask[i] == solid {
				continue
			}
			gx := 0.5 * (math.Abs(curl[g.Idx(x+1, y)]) - math.Abs(curl[g.Idx(x-1, y)]))
			gy := 0.5 * (math.Abs(curl[g.Idx(x, y+1)]) - math.Abs(curl[g.Idx(x, y-1)]))
			mag := math.Sqrt(gx*gx+gy*gy) + eps
			gx /= mag
			gy /= mag

			u[i] += strength * gy * curl[i]
			v[i] -= strength * gx * curl[i]
		}
	}
}
