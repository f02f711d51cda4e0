package metrics

import (
	"testing"

	"github.com/sgshea/fluidsim/internal/fluid"
)

func testSim(t *testing.T) *fluid.Sim {
	t.Helper()
	s, err := fluid.New(16, 16, fluid.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestKineticEnergyTracksLatest(t *testing.T) {
	s := testSim(t)
	m := NewKineticEnergy()

	m.Observe(s, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero energy, got %f", m.Value())
	}

	if err := s.Tick(0.05, []fluid.Impulse{{X: 8, Y: 8, DU: 2, Radius: 3}}); err != nil {
		t.Fatal(err)
	}
	m.Observe(s, 0.05)
	if m.Value() <= 0 {
		t.Error("expected positive energy after impulse")
	}
}

func TestDyeMassDrift(t *testing.T) {
	s := testSim(t)
	s.Dye().Set(8, 8, 10)

	m := NewDyeMass()
	m.Observe(s, 0)
	if m.Value() != 0 {
		t.Errorf("drift should start at 0, got %f", m.Value())
	}

	s.Dye().Set(8, 8, 11)
	m.Observe(s, 1)
	if v := m.Value(); v < 0.09 || v > 0.11 {
		t.Errorf("expected ~0.1 drift, got %f", v)
	}
}

func TestDivergenceMaxKeepsWorst(t *testing.T) {
	s := testSim(t)
	m := NewDivergenceMax()

	s.Velocity().U.Set(8, 8, 4)
	m.Observe(s, 0)
	worst := m.Value()
	if worst <= 0 {
		t.Fatal("expected positive divergence")
	}

	s.Velocity().U.Set(8, 8, 1)
	m.Observe(s, 1)
	if m.Value() != worst {
		t.Error("worst divergence should be retained")
	}
}

func TestStability(t *testing.T) {
	s := testSim(t)
	m := NewStability(1.0)

	m.Observe(s, 0)
	if m.Value() != 1.0 {
		t.Errorf("quiet sim should be fully stable, got %f", m.Value())
	}

	s.Velocity().U.Set(8, 8, 100)
	m.Observe(s, 1)
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5 after one violation in two samples, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 1.0 {
		t.Error("reset should restore full stability")
	}
}
