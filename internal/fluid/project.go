package fluid

import (
	"github.com/sgshea/fluidsim/internal/field"
	"github.com/sgshea/fluidsim/internal/parallel"
)

// Project removes divergence from the velocity field. Per-cell divergence
// treats u(x,y) as the flux on the cell's left face and v(x,y) on its
// bottom face, so divergence, the pressure Laplacian and the gradient
// correction share one compact stencil and the relaxation genuinely
// drives the measured divergence toward zero. The Poisson solve runs a
// fixed Jacobi budget from p = 0 each tick (no warm start, so a tick's
// result never depends on pressure history). The residual divergence
// after the fixed budget is small rather than exactly zero; that bounded
// residual is the contract.
//
// Tick calls this once per step; it is exported so hosts and tests can
// re-project a field and observe convergence directly.
func (s *Sim) Project() {
	g := s.grid
	u, v := s.vel.U.Cur(), s.vel.V.Cur()

	div := s.div.Cur()
	parallel.Range(1, g.Height-1, func(y int) {
		for x := 1; x < g.Width-1; x++ {
			i := g.Idx(x, y)
			if s.mask[i] == solid {
				div[i] = 0
				continue
			}
			div[i] = u[g.Idx(x+1, y)] - u[i] + v[g.Idx(x, y+1)] - v[i]
		}
	})
	field.EnforceScalar(s.div)

	s.pressure.Clear()
	for iter := 0; iter < s.cfg.ProjectionIterations; iter++ {
		p := s.pressure.Cur()
		next := s.pressure.Next()
		copy(next, p)
		parallel.Range(1, g.Height-1, func(y int) {
			for x := 1; x < g.Width-1; x++ {
				i := g.Idx(x, y)
				if s.mask[i] == solid {
					continue
				}
				sum := s.maskedAt(p, x-1, y, i) +
					s.maskedAt(p, x+1, y, i) +
					s.maskedAt(p, x, y-1, i) +
					s.maskedAt(p, x, y+1, i)
				next[i] = (sum - div[i]) * 0.25
			}
		})
		s.pressure.Swap()
		field.EnforceScalar(s.pressure)
	}

	// Subtract the pressure gradient across each face. Faces against a
	// solid cell see a zero gradient and stay untouched, so obstacle
	// velocities survive the correction.
	p := s.pressure.Cur()
	parallel.Range(1, g.Height-1, func(y int) {
		for x := 1; x < g.Width-1; x++ {
			i := g.Idx(x, y)
			if s.mask[i] == solid {
				continue
			}
			u[i] -= p[i] - s.maskedAt(p, x-1, y, i)
			v[i] -= p[i] - s.maskedAt(p, x, y-1, i)
		}
	})

	field.EnforceVelocity(s.vel, s.cfg.Boundary)
}
