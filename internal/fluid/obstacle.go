package fluid

// SetCircularObstacle marks the interior cells within radius of (cx, cy)
// as solid and stamps the obstacle's own velocity into them, so the fluid
// around a moving obstacle gets dragged along. Any previous obstacle is
// cleared first; the solver supports one stamped obstacle at a time, which
// matches a mouse-dragged disc.
func (s *Sim) SetCircularObstacle(cx, cy, radius, vx, vy float64) {
	g := s.grid
	u, v := s.vel.U.Cur(), s.vel.V.Cur()
	r2 := radius * radius

	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			i := g.Idx(x, y)
			s.mask[i] = open

			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy < r2 {
				s.mask[i] = solid
				u[i] = vx
				v[i] = vy
			}
		}
	}
}

// ClearObstacles reopens every interior cell.
func (s *Sim) ClearObstacles() {
	g := s.grid
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			s.mask[g.Idx(x, y)] = open
		}
	}
}

// Solid reports whether the cell at (x, y) is inside an obstacle.
func (s *Sim) Solid(x, y int) bool {
	if !s.grid.Contains(x, y) {
		return false
	}
	return s.mask[s.grid.Idx(x, y)] == solid
}
