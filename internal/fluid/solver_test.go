package fluid_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sgshea/fluidsim/internal/field"
	"github.com/sgshea/fluidsim/internal/fluid"
)

func newSim(w, h int, mutate func(*fluid.Config)) *fluid.Sim {
	cfg := fluid.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := fluid.New(w, h, cfg)
	Expect(err).NotTo(HaveOccurred())
	return s
}

// swirlField writes a smooth rotational velocity pattern with nonzero
// divergence into the interior.
func swirlField(s *fluid.Sim, amp float64) {
	g := s.Grid()
	cx := float64(g.Width-1) / 2
	cy := float64(g.Height-1) / 2
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			fx := float64(x) - cx
			fy := float64(y) - cy
			s.Velocity().U.Set(x, y, amp*math.Sin(0.7*fy)+0.3*amp*fx)
			s.Velocity().V.Set(x, y, -amp*math.Sin(0.7*fx)+0.3*amp*fy)
		}
	}
}

func velocityDelta(a, b []float64) float64 {
	total := 0.0
	for i := range a {
		d := a[i] - b[i]
		total += d * d
	}
	return math.Sqrt(total)
}

var _ = Describe("New", func() {
	It("rejects non-positive and degenerate dimensions", func() {
		cfg := fluid.DefaultConfig()
		for _, dims := range [][2]int{{0, 10}, {10, 0}, {-4, 8}, {2, 2}} {
			_, err := fluid.New(dims[0], dims[1], cfg)
			Expect(err).To(MatchError(fluid.ErrConfiguration))
		}
	})

	It("rejects invalid numerical parameters", func() {
		bad := []func(*fluid.Config){
			func(c *fluid.Config) { c.Viscosity = -1 },
			func(c *fluid.Config) { c.DiffusionRate = -0.5 },
			func(c *fluid.Config) { c.JacobiIterations = 0 },
			func(c *fluid.Config) { c.ProjectionIterations = -3 },
			func(c *fluid.Config) { c.MaxDt = 0 },
			func(c *fluid.Config) { c.Confinement = -0.1 },
		}
		for _, mutate := range bad {
			cfg := fluid.DefaultConfig()
			mutate(&cfg)
			_, err := fluid.New(16, 16, cfg)
			Expect(err).To(MatchError(fluid.ErrConfiguration))
		}
	})

	It("accepts the default configuration", func() {
		s, err := fluid.New(32, 24, fluid.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Grid().Width).To(Equal(32))
		Expect(s.Grid().Height).To(Equal(24))
	})
})

var _ = Describe("Tick", func() {
	It("rejects a negative dt and leaves state untouched", func() {
		s := newSim(8, 8, nil)
		Expect(s.Tick(0.1, []fluid.Impulse{{X: 4, Y: 4, DU: 1, Radius: 1}})).To(Succeed())
		before := s.KineticEnergy()

		err := s.Tick(-0.01, nil)
		Expect(err).To(MatchError(fluid.ErrInput))
		Expect(s.KineticEnergy()).To(Equal(before))
		Expect(s.Ticks()).To(Equal(uint64(1)))
	})

	It("keeps wall velocity exactly at the no-slip condition", func() {
		s := newSim(12, 12, nil)
		Expect(s.Tick(0.02, []fluid.Impulse{{X: 6, Y: 6, DU: 2, DV: -1, Radius: 3}})).To(Succeed())

		g := s.Grid()
		for x := 0; x < g.Width; x++ {
			Expect(s.Velocity().U.At(x, 0)).To(BeZero())
			Expect(s.Velocity().V.At(x, 0)).To(BeZero())
			Expect(s.Velocity().U.At(x, g.Height-1)).To(BeZero())
			Expect(s.Velocity().V.At(x, g.Height-1)).To(BeZero())
		}
		for y := 0; y < g.Height; y++ {
			Expect(s.Velocity().U.At(0, y)).To(BeZero())
			Expect(s.Velocity().U.At(g.Width-1, y)).To(BeZero())
		}
	})

	It("mirrors the wall-normal component under free-slip", func() {
		s := newSim(12, 12, func(c *fluid.Config) { c.Boundary = field.FreeSlip })
		Expect(s.Tick(0.02, []fluid.Impulse{{X: 6, Y: 6, DU: 2, DV: 1, Radius: 3}})).To(Succeed())

		g := s.Grid()
		for y := 1; y < g.Height-1; y++ {
			Expect(s.Velocity().U.At(0, y)).To(Equal(-s.Velocity().U.At(1, y)))
			Expect(s.Velocity().U.At(1, y)).To(BeZero())
			Expect(s.Velocity().U.At(g.Width-1, y)).To(BeZero())
			Expect(s.Velocity().V.At(0, y)).To(Equal(s.Velocity().V.At(1, y)))
		}
		for x := 1; x < g.Width-1; x++ {
			Expect(s.Velocity().V.At(x, 0)).To(Equal(-s.Velocity().V.At(x, 1)))
			Expect(s.Velocity().V.At(x, 1)).To(BeZero())
			Expect(s.Velocity().V.At(x, g.Height-1)).To(BeZero())
			Expect(s.Velocity().U.At(x, 0)).To(Equal(s.Velocity().U.At(x, 1)))
		}
	})

	It("stays finite and bounded with a dt ten times the nominal step", func() {
		s := newSim(16, 16, func(c *fluid.Config) { c.MaxDt = 10 })
		swirlField(s, 1.0)

		for i := 0; i < 20; i++ {
			Expect(s.Tick(10.0/60.0, nil)).To(Succeed())
		}

		maxAbs := 0.0
		for _, buf := range [][]float64{s.Velocity().U.Cur(), s.Velocity().V.Cur()} {
			for _, v := range buf {
				Expect(math.IsNaN(v)).To(BeFalse())
				Expect(math.IsInf(v, 0)).To(BeFalse())
				if a := math.Abs(v); a > maxAbs {
					maxAbs = a
				}
			}
		}
		Expect(maxAbs).To(BeNumerically("<", 10.0))
	})
})

var _ = Describe("Project", func() {
	It("bounds the residual divergence after the fixed iteration budget", func() {
		s := newSim(8, 8, func(c *fluid.Config) { c.ProjectionIterations = 200 })
		swirlField(s, 0.5)
		field.EnforceVelocity(s.Velocity(), field.NoSlip)

		s.Project()
		Expect(s.MaxDivergence()).To(BeNumerically("<=", 1e-3))
	})

	It("yields a diminishing correction when applied twice", func() {
		s := newSim(8, 8, func(c *fluid.Config) { c.ProjectionIterations = 100 })
		swirlField(s, 1.0)
		field.EnforceVelocity(s.Velocity(), field.NoSlip)

		before := append([]float64(nil), s.Velocity().U.Cur()...)
		beforeV := append([]float64(nil), s.Velocity().V.Cur()...)
		s.Project()
		first := velocityDelta(s.Velocity().U.Cur(), before) +
			velocityDelta(s.Velocity().V.Cur(), beforeV)

		mid := append([]float64(nil), s.Velocity().U.Cur()...)
		midV := append([]float64(nil), s.Velocity().V.Cur()...)
		s.Project()
		second := velocityDelta(s.Velocity().U.Cur(), mid) +
			velocityDelta(s.Velocity().V.Cur(), midV)

		Expect(first).To(BeNumerically(">", 0))
		Expect(second).To(BeNumerically("<", first*0.5))
	})
})

var _ = Describe("Dye transport", func() {
	It("approximately conserves dye mass with free-slip walls and no impulses", func() {
		s := newSim(24, 24, func(c *fluid.Config) {
			c.Boundary = field.FreeSlip
			c.DiffusionRate = 0.0001
		})
		// Centered blob plus a gentle swirl to move it around.
		for y := 9; y <= 14; y++ {
			for x := 9; x <= 14; x++ {
				s.Dye().Set(x, y, 1.0)
			}
		}
		swirlField(s, 0.1)

		initial := s.TotalDye()
		for i := 0; i < 50; i++ {
			Expect(s.Tick(0.05, nil)).To(Succeed())
		}
		drift := math.Abs(s.TotalDye()-initial) / initial
		Expect(drift).To(BeNumerically("<", 0.05))
	})
})

var _ = Describe("Impulse scenario", func() {
	It("spreads an impulse with decaying magnitude and dissipates energy", func() {
		s := newSim(4, 4, func(c *fluid.Config) {
			c.Viscosity = 0.01
			c.DiffusionRate = 0.01
			c.MaxDt = 1
		})

		Expect(s.Tick(0.1, []fluid.Impulse{{X: 2, Y: 2, DU: 1, Radius: 1}})).To(Succeed())

		mag := func(x, y int) float64 {
			return math.Hypot(s.Velocity().U.At(x, y), s.Velocity().V.At(x, y))
		}
		center := mag(2, 2)
		Expect(center).To(BeNumerically(">", 0))
		Expect(mag(1, 2)).To(BeNumerically(">", 0))
		Expect(mag(1, 2)).To(BeNumerically("<=", center+1e-12))

		energy := s.KineticEnergy()
		for i := 0; i < 50; i++ {
			Expect(s.Tick(0.1, nil)).To(Succeed())
			next := s.KineticEnergy()
			Expect(next).To(BeNumerically("<=", energy*(1+1e-9)+1e-15))
			energy = next
		}
	})

	It("sums overlapping impulses additively", func() {
		s := newSim(16, 16, nil)
		one := []fluid.Impulse{{X: 8, Y: 8, DU: 1, Radius: 2}}
		two := []fluid.Impulse{{X: 8, Y: 8, DU: 1, Radius: 2}, {X: 8, Y: 8, DU: 1, Radius: 2}}

		a, _ := fluid.New(16, 16, s.Config())
		b, _ := fluid.New(16, 16, s.Config())
		Expect(a.Tick(0, one)).To(Succeed())
		Expect(b.Tick(0, two)).To(Succeed())

		Expect(b.Velocity().U.At(8, 8)).To(BeNumerically("~", 2*a.Velocity().U.At(8, 8), 1e-9))
	})

	It("adds dye through the impulse dye delta", func() {
		s := newSim(16, 16, nil)
		Expect(s.Tick(0.01, []fluid.Impulse{{X: 8, Y: 8, Dye: 5, Radius: 2}})).To(Succeed())
		Expect(s.TotalDye()).To(BeNumerically(">", 0))
		Expect(s.SampleDensity(8, 8)).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Obstacles", func() {
	It("stamps the obstacle velocity and keeps it across ticks", func() {
		s := newSim(20, 20, nil)
		s.SetCircularObstacle(10, 10, 3, 0.5, -0.25)

		Expect(s.Solid(10, 10)).To(BeTrue())
		Expect(s.Solid(2, 2)).To(BeFalse())
		Expect(s.Velocity().U.At(10, 10)).To(Equal(0.5))

		Expect(s.Tick(0.02, nil)).To(Succeed())
		Expect(s.Velocity().U.At(10, 10)).To(Equal(0.5))
		Expect(s.Velocity().V.At(10, 10)).To(Equal(-0.25))
	})

	It("ignores impulses landing inside a solid cell", func() {
		s := newSim(20, 20, nil)
		s.SetCircularObstacle(10, 10, 1, 0, 0)
		Expect(s.Tick(0, []fluid.Impulse{{X: 10, Y: 10, DU: 3}})).To(Succeed())
		Expect(s.Velocity().U.At(10, 10)).To(BeZero())
	})
})

var _ = Describe("Reset", func() {
	It("zeroes all fields and reopens cells without reallocating", func() {
		s := newSim(16, 16, nil)
		s.SetCircularObstacle(8, 8, 2, 1, 1)
		Expect(s.Tick(0.05, []fluid.Impulse{{X: 4, Y: 4, DU: 1, Dye: 1, Radius: 2}})).To(Succeed())

		s.Reset()

		Expect(s.KineticEnergy()).To(BeZero())
		Expect(s.TotalDye()).To(BeZero())
		Expect(s.Solid(8, 8)).To(BeFalse())
		Expect(s.Ticks()).To(Equal(uint64(0)))
	})
})

var _ = Describe("Sampling", func() {
	It("clamps out-of-range queries instead of failing", func() {
		s := newSim(8, 8, nil)
		s.Dye().Set(0, 0, 3)
		Expect(s.SampleDensity(-10, -10)).To(Equal(3.0))
		u, v := s.SampleVelocity(100, 100)
		Expect(u).To(BeZero())
		Expect(v).To(BeZero())
	})
})
