package field

import "math"

// Grid holds the fixed dimensions shared by every field of a simulation.
// Cell (x, y) lives at row-major index y*Width + x.
type Grid struct {
	Width, Height int
}

func (g Grid) Idx(x, y int) int { return y*g.Width + x }

func (g Grid) Cells() int { return g.Width * g.Height }

func (g Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Scalar is a dense float64 field with two buffers. All per-cell update
// passes read the current buffer and write the next one, then call Swap;
// the buffers are exchanged, never copied.
type Scalar struct {
	Grid
	cur, next []float64
}

func NewScalar(g Grid) *Scalar {
	return &Scalar{
		Grid: g,
		cur:  make([]float64, g.Cells()),
		next: make([]float64, g.Cells()),
	}
}

func (f *Scalar) At(x, y int) float64     { return f.cur[f.Idx(x, y)] }
func (f *Scalar) Set(x, y int, v float64) { f.cur[f.Idx(x, y)] = v }
func (f *Scalar) Add(x, y int, v float64) { f.cur[f.Idx(x, y)] += v }

// Cur returns the live buffer; Next the write target for the ongoing pass.
func (f *Scalar) Cur() []float64  { return f.cur }
func (f *Scalar) Next() []float64 { return f.next }

// Swap transfers ownership of the next buffer to current.
func (f *Scalar) Swap() { f.cur, f.next = f.next, f.cur }

func (f *Scalar) Fill(v float64) {
	for i := range f.cur {
		f.cur[i] = v
	}
}

func (f *Scalar) Clear() {
	f.Fill(0)
	for i := range f.next {
		f.next[i] = 0
	}
}

func (f *Scalar) Sum() float64 {
	total := 0.0
	for _, v := range f.cur {
		total += v
	}
	return total
}

// Sample bilinearly interpolates the current buffer at fractional cell
// coordinates. Out-of-range positions clamp to the nearest edge cell, so
// sampling never reads outside the grid.
func (f *Scalar) Sample(x, y float64) float64 {
	return Sample(f.Grid, f.cur, x, y)
}

// Sample interpolates an arbitrary buffer laid out on g. Kept separate so
// advection can sample a buffer other than a field's current one.
func Sample(g Grid, data []float64, x, y float64) float64 {
	x = clamp(x, 0, float64(g.Width-1))
	y = clamp(y, 0, float64(g.Height-1))

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > g.Width-1 {
		x1 = g.Width - 1
	}
	if y1 > g.Height-1 {
		y1 = g.Height - 1
	}

	tx := x - float64(x0)
	ty := y - float64(y0)
	sx := 1 - tx
	sy := 1 - ty

	return sx*sy*data[g.Idx(x0, y0)] +
		tx*sy*data[g.Idx(x1, y0)] +
		sx*ty*data[g.Idx(x0, y1)] +
		tx*ty*data[g.Idx(x1, y1)]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Vector is a two-component field stored as separate U (x) and V (y)
// scalar components on the same grid.
type Vector struct {
	Grid
	U, V *Scalar
}

func NewVector(g Grid) *Vector {
	return &Vector{Grid: g, U: NewScalar(g), V: NewScalar(g)}
}

func (f *Vector) Sample(x, y float64) (u, v float64) {
	return f.U.Sample(x, y), f.V.Sample(x, y)
}

func (f *Vector) Swap() {
	f.U.Swap()
	f.V.Swap()
}

func (f *Vector) Clear() {
	f.U.Clear()
	f.V.Clear()
}
