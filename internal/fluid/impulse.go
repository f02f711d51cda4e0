package fluid

import "math"

// Impulse is a transient external input: a velocity delta and optionally a
// dye delta centered at a (possibly fractional) grid position, spread with
// Gaussian falloff out to Radius cells. Impulses are consumed within the
// tick they arrive.
type Impulse struct {
	X, Y   float64
	DU, DV float64
	Dye    float64
	Radius float64
}

// inject adds each impulse into the velocity and dye fields and applies
// gravity. Overlapping impulses simply sum; nothing clamps the magnitude
// here, dissipation and projection bound the field later in the tick.
func (s *Sim) inject(dt float64, impulses []Impulse) {
	for _, imp := range impulses {
		s.applyImpulse(imp)
	}

	if s.cfg.Gravity != 0 {
		g := s.grid
		v := s.vel.V.Cur()
		gdt := s.cfg.Gravity * dt
		for y := 1; y < g.Height-1; y++ {
			for x := 1; x < g.Width-1; x++ {
				i := g.Idx(x, y)
				if s.mask[i] == solid {
					continue
				}
				v[i] += gdt
			}
		}
	}
}

func (s *Sim) applyImpulse(imp Impulse) {
	g := s.grid

	if imp.Radius <= 0 {
		x := clampInt(int(math.Round(imp.X)), 1, g.Width-2)
		y := clampInt(int(math.Round(imp.Y)), 1, g.Height-2)
		i := g.Idx(x, y)
		if s.mask[i] == solid {
			return
		}
		s.vel.U.Cur()[i] += imp.DU
		s.vel.V.Cur()[i] += imp.DV
		s.dye.Cur()[i] += imp.Dye
		return
	}

	r2 := imp.Radius * imp.Radius
	x0 := clampInt(int(math.Floor(imp.X-imp.Radius)), 1, g.Width-2)
	x1 := clampInt(int(math.Ceil(imp.X+imp.Radius)), 1, g.Width-2)
	y0 := clampInt(int(math.Floor(imp.Y-imp.Radius)), 1, g.Height-2)
	y1 := clampInt(int(math.Ceil(imp.Y+imp.Radius)), 1, g.Height-2)

	u, v, d := s.vel.U.Cur(), s.vel.V.Cur(), s.dye.Cur()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			i := g.Idx(x, y)
			if s.mask[i] == solid {
				continue
			}
			dx := float64(x) - imp.X
			dy := float64(y) - imp.Y
			dist2 := dx*dx + dy*dy
			if dist2 > r2 {
				continue
			}
			// Gaussian falloff, ~5% strength at the radius edge.
			w := math.Exp(-3.0 * dist2 / r2)
			u[i] += w * imp.DU
			v[i] += w * imp.DV
			d[i] += w * imp.Dye
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
