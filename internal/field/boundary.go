package field

// Policy selects how velocity behaves at the domain walls.
type Policy int

const (
	// NoSlip pins both velocity components to zero at wall cells.
	NoSlip Policy = iota
	// FreeSlip reflects the wall-normal component (u at left/right walls,
	// v at top/bottom) and copies the tangential one, so fluid slides
	// along walls without penetrating them.
	FreeSlip
)

func (p Policy) String() string {
	switch p {
	case NoSlip:
		return "no-slip"
	case FreeSlip:
		return "free-slip"
	default:
		return "unknown"
	}
}

// EnforceScalar applies a zero-gradient condition to the outermost ring:
// each edge cell copies its adjacent interior cell, corners average their
// two edge neighbors. Interior update passes never write the ring, so this
// runs after every field-mutating sub-step.
func EnforceScalar(f *Scalar) {
	g := f.Grid
	d := f.cur
	w, h := g.Width, g.Height
	for x := 1; x < w-1; x++ {
		d[g.Idx(x, 0)] = d[g.Idx(x, 1)]
		d[g.Idx(x, h-1)] = d[g.Idx(x, h-2)]
	}
	for y := 1; y < h-1; y++ {
		d[g.Idx(0, y)] = d[g.Idx(1, y)]
		d[g.Idx(w-1, y)] = d[g.Idx(w-2, y)]
	}
	fixCorners(g, d)
}

// EnforceVelocity applies the configured wall condition. u values act as
// left-face fluxes and v values as bottom-face fluxes, so the faces lying
// on a wall — u in the two columns adjacent to the left and right walls,
// v in the rows adjacent to top and bottom — are pinned to zero under both
// policies; that keeps the net flux through the walls exactly zero, which
// the pressure solve requires. The policies differ in the tangential
// component: no-slip zeroes it on the ring, free-slip copies it from the
// interior so fluid slides along the wall.
//
// After this pass the wall-normal component at every ring cell is exactly
// zero (no-slip) or the negated mirror of its interior neighbor
// (free-slip).
func EnforceVelocity(vel *Vector, p Policy) {
	g := vel.Grid
	u, v := vel.U.cur, vel.V.cur
	w, h := g.Width, g.Height

	// Wall faces carry no flux regardless of policy.
	for y := 0; y < h; y++ {
		u[g.Idx(1, y)] = 0
		u[g.Idx(w-1, y)] = 0
	}
	for x := 0; x < w; x++ {
		v[g.Idx(x, 1)] = 0
		v[g.Idx(x, h-1)] = 0
	}

	switch p {
	case NoSlip:
		for x := 0; x < w; x++ {
			u[g.Idx(x, 0)] = 0
			v[g.Idx(x, 0)] = 0
			u[g.Idx(x, h-1)] = 0
			v[g.Idx(x, h-1)] = 0
		}
		for y := 0; y < h; y++ {
			u[g.Idx(0, y)] = 0
			v[g.Idx(0, y)] = 0
			u[g.Idx(w-1, y)] = 0
			v[g.Idx(w-1, y)] = 0
		}
	case FreeSlip:
		for y := 1; y < h-1; y++ {
			u[g.Idx(0, y)] = -u[g.Idx(1, y)]
			v[g.Idx(0, y)] = v[g.Idx(1, y)]
			v[g.Idx(w-1, y)] = v[g.Idx(w-2, y)]
		}
		for x := 1; x < w-1; x++ {
			v[g.Idx(x, 0)] = -v[g.Idx(x, 1)]
			u[g.Idx(x, 0)] = u[g.Idx(x, 1)]
			u[g.Idx(x, h-1)] = u[g.Idx(x, h-2)]
		}
		fixCorners(g, u)
		fixCorners(g, v)
	}
}

func fixCorners(g Grid, d []float64) {
	w, h := g.Width, g.Height
	d[g.Idx(0, 0)] = 0.5 * (d[g.Idx(1, 0)] + d[g.Idx(0, 1)])
	d[g.Idx(w-1, 0)] = 0.5 * (d[g.Idx(w-2, 0)] + d[g.Idx(w-1, 1)])
	d[g.Idx(0, h-1)] = 0.5 * (d[g.Idx(1, h-1)] + d[g.Idx(0, h-2)])
	d[g.Idx(w-1, h-1)] = 0.5 * (d[g.Idx(w-2, h-1)] + d[g.Idx(w-1, h-2)])
}
