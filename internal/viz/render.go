// Package viz renders fluid fields in the terminal: a braille canvas for
// dye density and colored block modes for pressure and speed.
package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sgshea/fluidsim/internal/fluid"
)

type Mode int

const (
	ModeDye Mode = iota
	ModePressure
	ModeVelocity
)

func (m Mode) String() string {
	switch m {
	case ModeDye:
		return "dye"
	case ModePressure:
		return "pressure"
	case ModeVelocity:
		return "velocity"
	}
	return "unknown"
}

func (m Mode) Next() Mode { return (m + 1) % 3 }

var solidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// Renderer draws a simulation into a fixed character viewport. Grid row 0
// is the bottom of the domain, so rendering flips vertically.
type Renderer struct {
	Cols, Rows int
	canvas     *Canvas
}

func NewRenderer(cols, rows int) *Renderer {
	return &Renderer{Cols: cols, Rows: rows, canvas: NewCanvas(cols, rows)}
}

func (r *Renderer) Render(s *fluid.Sim, mode Mode) string {
	switch mode {
	case ModePressure:
		return r.renderColored(s, pressureAt(s))
	case ModeVelocity:
		return r.renderColored(s, speedAt(s))
	default:
		return r.renderDye(s)
	}
}

// renderDye shades the braille canvas by dye density, one canvas cell per
// character, obstacles fully lit.
func (r *Renderer) renderDye(s *fluid.Sim) string {
	g := s.Grid()
	r.canvas.Clear()
	for row := 0; row < r.Rows; row++ {
		for col := 0; col < r.Cols; col++ {
			gx, gy := r.gridPos(g.Width, g.Height, col, row)
			if s.Solid(int(gx+0.5), int(gy+0.5)) {
				r.canvas.Shade(col, row, 1)
				continue
			}
			r.canvas.Shade(col, row, s.Dye().Sample(gx, gy))
		}
	}
	return r.canvas.String()
}

type sampler func(gx, gy float64) float64

func pressureAt(s *fluid.Sim) sampler {
	return func(gx, gy float64) float64 { return s.Pressure().Sample(gx, gy) }
}

func speedAt(s *fluid.Sim) sampler {
	return func(gx, gy float64) float64 {
		u, v := s.SampleVelocity(gx, gy)
		return math.Hypot(u, v)
	}
}

// renderColored draws one colored block per character cell, scaled to the
// sampled min/max of the current viewport.
func (r *Renderer) renderColored(s *fluid.Sim, sample sampler) string {
	g := s.Grid()

	vals := make([]float64, r.Cols*r.Rows)
	min, max := math.Inf(1), math.Inf(-1)
	for row := 0; row < r.Rows; row++ {
		for col := 0; col < r.Cols; col++ {
			gx, gy := r.gridPos(g.Width, g.Height, col, row)
			v := sample(gx, gy)
			vals[row*r.Cols+col] = v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}

	var b strings.Builder
	for row := 0; row < r.Rows; row++ {
		for col := 0; col < r.Cols; col++ {
			gx, gy := r.gridPos(g.Width, g.Height, col, row)
			if s.Solid(int(gx+0.5), int(gy+0.5)) {
				b.WriteString(solidStyle.Render("█"))
				continue
			}
			b.WriteString(SciStyle(vals[row*r.Cols+col], min, max).Render("█"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// gridPos maps a viewport character cell to fractional grid coordinates,
// flipping vertically so the top screen row shows the top of the domain.
func (r *Renderer) gridPos(gw, gh, col, row int) (float64, float64) {
	gx := (float64(col) + 0.5) / float64(r.Cols) * float64(gw-1)
	gy := (1 - (float64(row)+0.5)/float64(r.Rows)) * float64(gh-1)
	return gx, gy
}
