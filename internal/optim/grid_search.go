// Package optim searches solver parameter combinations for the one that
// minimizes a run metric.
package optim

import (
	"context"
	"math"
)

// Param is one searched dimension: a named solver parameter and the
// values to try for it.
type Param struct {
	Name   string
	Values []float64
}

// Evaluate runs one simulation with the given parameter assignment and
// returns its final metric values.
type Evaluate func(ctx context.Context, params map[string]float64) (map[string]float64, error)

type GridSearch struct {
	params []Param
}

func NewGridSearch(params []Param) *GridSearch {
	return &GridSearch{params: params}
}

// Search evaluates every combination and returns the assignment with the
// lowest value of the named metric. Combinations whose evaluation fails
// are skipped; if every combination fails, the last error is returned.
func (g *GridSearch) Search(ctx context.Context, eval Evaluate, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	var lastErr error

	g.searchRecursive(ctx, 0, make(map[string]float64), eval, metricName, &best, &bestParams, &lastErr)

	if bestParams == nil && lastErr != nil {
		return nil, 0, lastErr
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval Evaluate,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
	lastErr *error,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.params) {
		metrics, err := eval(ctx, current)
		if err != nil {
			*lastErr = err
			return
		}

		val, ok := metrics[metricName]
		if !ok || math.IsNaN(val) {
			return
		}
		if val < *best {
			*best = val
			assignment := make(map[string]float64, len(current))
			for k, v := range current {
				assignment[k] = v
			}
			*bestParams = assignment
		}
		return
	}

	p := g.params[depth]
	for _, val := range p.Values {
		current[p.Name] = val
		g.searchRecursive(ctx, depth+1, current, eval, metricName, best, bestParams, lastErr)
	}
	delete(current, p.Name)
}

// Combinations reports how many evaluations a full search performs.
func (g *GridSearch) Combinations() int {
	n := 1
	for _, p := range g.params {
		n *= len(p.Values)
	}
	return n
}
