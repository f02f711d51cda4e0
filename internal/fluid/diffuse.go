package fluid

import (
	"github.com/sgshea/fluidsim/internal/field"
	"github.com/sgshea/fluidsim/internal/parallel"
)

// diffuse solves (I - rate*dt*Laplacian) x = x0 by running exactly the
// configured number of Jacobi iterations. Each sweep reads the previous
// iterate and writes the next buffer, so sweeps parallelize across rows
// with a barrier between them. The iteration budget is a contract: visual
// behavior is tuned against the approximate solve, not a converged one.
func (s *Sim) diffuse(f *field.Scalar, rate, dt float64) {
	a := rate * dt
	if a == 0 {
		return
	}
	g := s.grid
	inv := 1.0 / (1.0 + 4.0*a)

	copy(s.x0, f.Cur())

	for iter := 0; iter < s.cfg.JacobiIterations; iter++ {
		cur := f.Cur()
		next := f.Next()
		copy(next, cur)
		parallel.Range(1, g.Height-1, func(y int) {
			for x := 1; x < g.Width-1; x++ {
				i := g.Idx(x, y)
				if s.mask[i] == solid {
					continue
				}
				sum := s.maskedAt(cur, x-1, y, i) +
					s.maskedAt(cur, x+1, y, i) +
					s.maskedAt(cur, x, y-1, i) +
					s.maskedAt(cur, x, y+1, i)
				next[i] = (s.x0[i] + a*sum) * inv
			}
		})
		f.Swap()
	}
}

// maskedAt reads a neighbor value, substituting the center cell when the
// neighbor is solid. That gives a zero-gradient condition at obstacle
// faces without branching on a separate boundary structure.
func (s *Sim) maskedAt(data []float64, x, y, center int) float64 {
	i := s.grid.Idx(x, y)
	if s.mask[i] == solid {
		return data[center]
	}
	return data[i]
}
