package storage

import (
	"testing"

	"github.com/sgshea/fluidsim/internal/field"
	"github.com/sgshea/fluidsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times: []float64{0.1, 0.2, 0.3},
		History: map[string][]float64{
			"energy":   {1.0, 0.9, 0.8},
			"dye_mass": {0.0, 0.01, 0.02},
		},
		Metrics: map[string]float64{
			"energy":   0.8,
			"dye_mass": 0.02,
		},
		TicksTaken: 3,
	}
}

func testDye() *field.Scalar {
	dye := field.NewScalar(field.Grid{Width: 4, Height: 3})
	dye.Set(1, 1, 0.5)
	dye.Set(2, 1, 1.0)
	return dye
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save("paint", 4, 3, 0.1, 0.3, "no-slip", testResult(), testDye())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scene != "paint" || meta.Width != 4 || meta.Height != 3 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Metrics["energy"] != 0.8 {
		t.Errorf("expected energy 0.8, got %f", meta.Metrics["energy"])
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save("paint", 4, 3, 0.1, 0.3, "no-slip", testResult(), nil)
	if err != nil {
		t.Fatal(err)
	}

	history, times, err := store.LoadHistory(runID)
	if err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	if len(times) != 3 {
		t.Fatalf("expected 3 time points, got %d", len(times))
	}
	if len(history["energy"]) != 3 || history["energy"][0] != 1.0 {
		t.Errorf("energy history mismatch: %v", history["energy"])
	}
	if len(history["dye_mass"]) != 3 {
		t.Errorf("dye_mass history mismatch: %v", history["dye_mass"])
	}
}

func TestDyeRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save("paint", 4, 3, 0.1, 0.3, "no-slip", testResult(), testDye())
	if err != nil {
		t.Fatal(err)
	}

	data, width, height, err := store.LoadDye(runID)
	if err != nil {
		t.Fatalf("load dye failed: %v", err)
	}
	if width != 4 || height != 3 {
		t.Fatalf("expected 4x3 field, got %dx%d", width, height)
	}
	if data[1*4+1] != 0.5 || data[1*4+2] != 1.0 {
		t.Errorf("dye values did not survive the round trip: %v", data)
	}
}

func TestListSkipsStrayFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Save("paint", 4, 3, 0.1, 0.3, "no-slip", testResult(), nil); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestListEmptyStore(t *testing.T) {
	store := New(t.TempDir() + "/missing")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list on missing dir should not fail: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
