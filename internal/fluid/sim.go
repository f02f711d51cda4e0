// Package fluid implements a grid-based incompressible flow solver in the
// stable-fluids style: semi-Lagrangian advection, implicit Jacobi diffusion
// and a fixed-budget pressure projection. It targets visual plausibility
// under interactive time steps rather than physical accuracy.
package fluid

import (
	"fmt"

	"github.com/sgshea/fluidsim/internal/field"
)

const (
	solid = 0.0
	open  = 1.0
)

// Sim is the full simulation state: one grid, a velocity field, a dye
// field and the projection scratch fields. It is exclusively owned by
// whoever drives Tick; readers must only touch it between ticks.
type Sim struct {
	grid field.Grid
	cfg  Config

	vel *field.Vector
	dye *field.Scalar

	pressure *field.Scalar
	div      *field.Scalar

	// mask marks each cell open (1) or solid (0). Obstacle cells keep the
	// velocity stamped into them and are skipped by every interior pass.
	mask []float64

	// x0 holds the pre-solve field during a diffusion solve.
	x0 []float64

	ticks uint64
}

// New builds a simulation at the given resolution. Dimensions must be at
// least 3 so an interior exists between the boundary rings.
func New(width, height int, cfg Config) (*Sim, error) {
	if width < 3 || height < 3 {
		return nil, fmt.Errorf("%w: grid %dx%d too small, need at least 3x3", ErrConfiguration, width, height)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	g := field.Grid{Width: width, Height: height}
	s := &Sim{
		grid:     g,
		cfg:      cfg,
		vel:      field.NewVector(g),
		dye:      field.NewScalar(g),
		pressure: field.NewScalar(g),
		div:      field.NewScalar(g),
		mask:     make([]float64, g.Cells()),
		x0:       make([]float64, g.Cells()),
	}
	for i := range s.mask {
		s.mask[i] = open
	}
	return s, nil
}

func (s *Sim) Grid() field.Grid        { return s.grid }
func (s *Sim) Config() Config          { return s.cfg }
func (s *Sim) Velocity() *field.Vector { return s.vel }
func (s *Sim) Dye() *field.Scalar      { return s.dye }
func (s *Sim) Pressure() *field.Scalar { return s.pressure }
func (s *Sim) Ticks() uint64           { return s.ticks }

func (s *Sim) fluidAt(x, y int) bool { return s.mask[s.grid.Idx(x, y)] != solid }

// Tick advances the state by one step. dt is clamped to MaxDt; a negative
// dt is rejected and leaves the state untouched. Impulses are consumed in
// order and not retained.
func (s *Sim) Tick(dt float64, impulses []Impulse) error {
	if dt < 0 {
		return fmt.Errorf("%w: negative dt %f", ErrInput, dt)
	}
	if dt > s.cfg.MaxDt {
		dt = s.cfg.MaxDt
	}

	s.inject(dt, impulses)
	field.EnforceVelocity(s.vel, s.cfg.Boundary)

	s.advectVelocity(dt)
	field.EnforceVelocity(s.vel, s.cfg.Boundary)

	s.diffuse(s.vel.U, s.cfg.Viscosity, dt)
	s.diffuse(s.vel.V, s.cfg.Viscosity, dt)
	field.EnforceVelocity(s.vel, s.cfg.Boundary)

	if s.cfg.Confinement > 0 {
		s.confineVorticity(dt)
		field.EnforceVelocity(s.vel, s.cfg.Boundary)
	}

	s.Project()

	s.advectDye(dt)
	s.diffuse(s.dye, s.cfg.DiffusionRate, dt)
	field.EnforceScalar(s.dye)

	s.ticks++
	return nil
}

// Reset zeroes every field without reallocating and clears obstacles.
func (s *Sim) Reset() {
	s.vel.Clear()
	s.dye.Clear()
	s.pressure.Clear()
	s.div.Clear()
	for i := range s.mask {
		s.mask[i] = open
	}
	s.ticks = 0
}

// SampleVelocity returns the bilinearly interpolated velocity at a
// fractional grid position. Out-of-range positions clamp to the edge.
func (s *Sim) SampleVelocity(x, y float64) (u, v float64) {
	return s.vel.Sample(x, y)
}

// SampleDensity returns the interpolated dye value at a fractional grid
// position.
func (s *Sim) SampleDensity(x, y float64) float64 {
	return s.dye.Sample(x, y)
}
