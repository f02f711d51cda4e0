package sim

import (
	"context"
	"sync"

	"github.com/sgshea/fluidsim/internal/fluid"
)

// Variant names one configuration in a parameter sweep.
type Variant struct {
	Name   string
	Width  int
	Height int
	Config fluid.Config
}

// Ensemble runs the same scenario across several solver configurations in
// parallel, one simulation per goroutine. Each variant gets its own Sim
// and its own metric instances, so runs never share mutable state.
type Ensemble struct {
	variants   []Variant
	source     func() ImpulseSource
	newMetrics func() []Metric
}

func NewEnsemble(variants []Variant, source func() ImpulseSource, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{variants: variants, source: source, newMetrics: newMetrics}
}

// Run executes every variant and returns results keyed by variant name.
// The first error wins; remaining results are discarded.
func (e *Ensemble) Run(ctx context.Context, cfg Config) (map[string]*Result, error) {
	results := make([]*Result, len(e.variants))
	errs := make([]error, len(e.variants))

	var wg sync.WaitGroup
	for i, v := range e.variants {
		wg.Add(1)
		go func(idx int, v Variant) {
			defer wg.Done()

			s, err := fluid.New(v.Width, v.Height, v.Config)
			if err != nil {
				errs[idx] = err
				return
			}

			var source ImpulseSource
			if e.source != nil {
				source = e.source()
			}
			runner := NewRunner(s, source)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					runner.AddMetric(m)
				}
			}
			results[idx], errs[idx] = runner.Run(ctx, cfg)
		}(i, v)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	byName := make(map[string]*Result, len(e.variants))
	for i, v := range e.variants {
		byName[v.Name] = results[i]
	}
	return byName, nil
}
