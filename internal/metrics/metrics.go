// Package metrics provides observers that summarize simulation behavior
// over a run: energy, dye mass drift, divergence and numerical stability.
package metrics

import (
	"math"

	"github.com/sgshea/fluidsim/internal/fluid"
)

// KineticEnergy records the kinetic energy of the velocity field; Value
// reports the most recent observation.
type KineticEnergy struct {
	latest  float64
	samples int
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(s *fluid.Sim, t float64) {
	k.latest = s.KineticEnergy()
	k.samples++
}

func (k *KineticEnergy) Value() float64 { return k.latest }

func (k *KineticEnergy) Reset() {
	k.latest = 0
	k.samples = 0
}

// DyeMass tracks the total dye over the run; Value reports the relative
// drift from the first observation, so a well-behaved closed run stays
// near zero.
type DyeMass struct {
	initial float64
	latest  float64
	samples int
}

func NewDyeMass() *DyeMass { return &DyeMass{} }

func (d *DyeMass) Name() string { return "dye_mass_drift" }

func (d *DyeMass) Observe(s *fluid.Sim, t float64) {
	total := s.TotalDye()
	if d.samples == 0 {
		d.initial = total
	}
	d.latest = total
	d.samples++
}

func (d *DyeMass) Value() float64 {
	if d.samples == 0 || d.initial == 0 {
		return 0
	}
	return math.Abs(d.latest-d.initial) / math.Abs(d.initial)
}

func (d *DyeMass) Reset() {
	d.initial = 0
	d.latest = 0
	d.samples = 0
}

// DivergenceMax records the worst post-tick divergence seen during a run.
type DivergenceMax struct {
	worst float64
}

func NewDivergenceMax() *DivergenceMax { return &DivergenceMax{} }

func (d *DivergenceMax) Name() string { return "divergence_max" }

func (d *DivergenceMax) Observe(s *fluid.Sim, t float64) {
	if div := s.MaxDivergence(); div > d.worst {
		d.worst = div
	}
}

func (d *DivergenceMax) Value() float64 { return d.worst }

func (d *DivergenceMax) Reset() { d.worst = 0 }

// Stability reports the fraction of observations whose kinetic energy
// stayed finite and below a threshold, 1.0 meaning every tick was sound.
type Stability struct {
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(sim *fluid.Sim, t float64) {
	s.samples++
	e := sim.KineticEnergy()
	if math.IsNaN(e) || math.IsInf(e, 0) || e > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
