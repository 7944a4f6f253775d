package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one independent plant/controller pair to simulate.
type Job struct {
	Name       string
	Plant      Plant
	Controller Controller
	Metrics    []Metric
	// Config overrides the ensemble's config for this job when set.
	Config *Config
}

// Ensemble runs independent jobs concurrently. Jobs must not share plants,
// controllers or metrics.
type Ensemble struct {
	workers int
	opts    []Option
}

func NewEnsemble(workers int, opts ...Option) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{workers: workers, opts: opts}
}

// Run simulates every job with cfg, or the job's own config, and returns
// the results in job order.
// The first failing job cancels the remaining ones.
func (e *Ensemble) Run(ctx context.Context, jobs []Job, cfg Config) ([]*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	results := make([]*Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, job := range jobs {
		g.Go(func() error {
			s := New(job.Plant, job.Controller, e.opts...)
			for _, m := range job.Metrics {
				s.AddMetric(m)
			}

			jobCfg := cfg
			if job.Config != nil {
				jobCfg = *job.Config
			}

			res, err := s.Run(gctx, jobCfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
