package optim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/balancesim/internal/config"
	"github.com/san-kum/balancesim/internal/dynamo"
	"github.com/san-kum/balancesim/internal/experiment"
)

// GridSearch evaluates every combination of parameter values and keeps the
// one with the smallest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
	log        *zap.Logger
}

type SearchResult struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Skipped   int
}

func NewGridSearch(params []string, ranges [][]float64, workers int, log *zap.Logger) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameter names but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("empty range for %s", params[i])
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GridSearch{paramNames: params, ranges: ranges, workers: workers, log: log}, nil
}

// Search runs base once per grid point and minimises metricName. Grid
// points whose configuration is rejected are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (*SearchResult, error) {
	registry := experiment.NewRegistry()

	var (
		points  []map[string]float64
		jobs    []dynamo.Job
		skipped int
	)

	g.searchRecursive(0, make(map[string]float64), func(params map[string]float64) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				skipped++
				return
			}
		}
		exp, err := experiment.New(cfg, registry, nil)
		if err != nil {
			g.log.Debug("skipping grid point", zap.Any("params", params), zap.Error(err))
			skipped++
			return
		}
		points = append(points, params)
		jobs = append(jobs, exp.Job())
	})

	if len(jobs) == 0 {
		return nil, fmt.Errorf("no valid grid points (%d skipped)", skipped)
	}

	g.log.Info("grid search", zap.Int("points", len(jobs)), zap.Int("skipped", skipped), zap.String("metric", metricName))

	results, err := dynamo.NewEnsemble(g.workers).Run(ctx, jobs, base.SimConfig())
	if err != nil {
		return nil, err
	}

	best := &SearchResult{Value: math.Inf(1), Evaluated: len(results), Skipped: skipped}
	for i, res := range results {
		val, ok := res.Metrics[metricName]
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s", metricName)
		}
		if best.Params == nil || val < best.Value {
			best.Value = val
			best.Params = points[i]
		}
	}

	return best, nil
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, visit func(map[string]float64)) {
	if depth == len(g.paramNames) {
		visit(current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(depth+1, newParams, visit)
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	return out
}
