package sim

import (
	"math"

	"github.com/sgshea/fluidsim/internal/fluid"
)

// NoImpulses is the quiet source: the fluid evolves freely.
type NoImpulses struct{}

func (NoImpulses) Impulses(t, dt float64) []fluid.Impulse { return nil }

// Burst fires a fixed impulse list on the first tick only, then goes
// quiet. Useful for decay and dissipation experiments.
type Burst struct {
	List  []fluid.Impulse
	fired bool
}

func (b *Burst) Impulses(t, dt float64) []fluid.Impulse {
	if b.fired {
		return nil
	}
	b.fired = true
	return b.List
}

// Stir injects a force that orbits the center of the grid, continuously
// pumping dye and momentum in. It keeps a demo or soak run visually alive
// without any interactive input.
type Stir struct {
	CX, CY   float64 // orbit center in grid coordinates
	Orbit    float64 // orbit radius in cells
	Radius   float64 // impulse falloff radius
	Strength float64 // velocity delta magnitude
	Dye      float64 // dye per impulse
	Period   float64 // seconds per revolution
}

func (s *Stir) Impulses(t, dt float64) []fluid.Impulse {
	period := s.Period
	if period <= 0 {
		period = 4
	}
	angle := 2 * math.Pi * t / period
	return []fluid.Impulse{{
		X:      s.CX + s.Orbit*math.Cos(angle),
		Y:      s.CY + s.Orbit*math.Sin(angle),
		DU:     -s.Strength * math.Sin(angle),
		DV:     s.Strength * math.Cos(angle),
		Dye:    s.Dye,
		Radius: s.Radius,
	}}
}

// Inflow re-stamps a steady velocity stripe each tick, approximating the
// wind-tunnel inlet of the tunnel scenes.
type Inflow struct {
	X        float64 // column to inject at
	Y0, Y1   float64 // vertical extent
	Velocity float64 // horizontal speed added per second
	Dye      float64 // dye per second over the stripe center
	Radius   float64
}

func (in *Inflow) Impulses(t, dt float64) []fluid.Impulse {
	imps := make([]fluid.Impulse, 0, int(in.Y1-in.Y0)+1)
	for y := in.Y0; y <= in.Y1; y++ {
		imps = append(imps, fluid.Impulse{
			X:      in.X,
			Y:      y,
			DU:     in.Velocity * dt,
			Dye:    in.Dye * dt,
			Radius: in.Radius,
		})
	}
	return imps
}
