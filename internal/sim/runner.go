// Package sim drives a fluid simulation for a fixed duration, feeding it
// impulses and collecting metrics. The solver itself lives in the fluid
// package; this layer owns pacing, observation and cancellation.
package sim

import (
	"context"
	"fmt"

	"github.com/sgshea/fluidsim/internal/fluid"
)

// Metric summarizes an aspect of the run; Observe is called once after
// every completed tick.
type Metric interface {
	Name() string
	Observe(s *fluid.Sim, t float64)
	Value() float64
	Reset()
}

// ImpulseSource produces the impulses to inject on the tick starting at t.
type ImpulseSource interface {
	Impulses(t, dt float64) []fluid.Impulse
}

// Observer is notified after each completed tick.
type Observer interface {
	OnTick(s *fluid.Sim, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Times      []float64
	History    map[string][]float64
	Metrics    map[string]float64
	TicksTaken int
}

type Runner struct {
	sim       *fluid.Sim
	source    ImpulseSource
	metrics   []Metric
	observers []Observer
}

func NewRunner(s *fluid.Sim, source ImpulseSource) *Runner {
	if source == nil {
		source = NoImpulses{}
	}
	return &Runner{sim: s, source: source}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run advances the simulation tick by tick until the duration elapses or
// the context is canceled. Cancellation only takes effect between ticks;
// a started tick always completes.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %f", fluid.ErrInput, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %f", fluid.ErrInput, cfg.Duration)
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:   make([]float64, 0, steps),
		History: make(map[string][]float64, len(r.metrics)),
		Metrics: make(map[string]float64, len(r.metrics)),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		impulses := r.source.Impulses(t, cfg.Dt)
		if err := r.sim.Tick(cfg.Dt, impulses); err != nil {
			return result, err
		}
		t += cfg.Dt
		result.TicksTaken++
		result.Times = append(result.Times, t)

		for _, m := range r.metrics {
			m.Observe(r.sim, t)
			result.History[m.Name()] = append(result.History[m.Name()], m.Value())
		}
		for _, o := range r.observers {
			o.OnTick(r.sim, t)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
