package fluid

import (
	"github.com/sgshea/fluidsim/internal/field"
	"github.com/sgshea/fluidsim/internal/parallel"
)

// advectVelocity transports the velocity field along itself for one step.
// Each interior cell backtraces to x - dt*v(x) and samples the previous
// velocity there, which stays bounded for arbitrarily large dt. Boundary
// and solid cells are carried over unchanged.
func (s *Sim) advectVelocity(dt float64) {
	g := s.grid
	u0, v0 := s.vel.U.Cur(), s.vel.V.Cur()
	un, vn := s.vel.U.Next(), s.vel.V.Next()
	copy(un, u0)
	copy(vn, v0)

	parallel.Range(1, g.Height-1, func(y int) {
		for x := 1; x < g.Width-1; x++ {
			i := g.Idx(x, y)
			if s.mask[i] == solid {
				continue
			}
			px := float64(x) - dt*u0[i]
			py := float64(y) - dt*v0[i]
			un[i] = field.Sample(g, u0, px, py)
			vn[i] = field.Sample(g, v0, px, py)
		}
	})

	s.vel.Swap()
}

// advectDye transports dye along the already projected velocity field.
func (s *Sim) advectDye(dt float64) {
	g := s.grid
	u, v := s.vel.U.Cur(), s.vel.V.Cur()
	d0 := s.dye.Cur()
	dn := s.dye.Next()
	copy(dn, d0)

	parallel.Range(1, g.Height-1, func(y int) {
		for x := 1; x < g.Width-1; x++ {
			i := g.Idx(x, y)
			if s.mask[i] == solid {
				continue
			}
			px := float64(x) - dt*u[i]
			py := float64(y) - dt*v[i]
			dn[i] = field.Sample(g, d0, px, py)
		}
	})

	s.dye.Swap()
}
