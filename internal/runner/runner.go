// Package runner solves and costs a network under one or more scenarios.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olealberto/msds-460-assignment-two/internal/cost"
	"github.com/olealberto/msds-460-assignment-two/internal/network"
	"github.com/olealberto/msds-460-assignment-two/internal/solver"
)

// Runner executes scenarios against a single read-only network.
type Runner struct {
	Network *network.Network
	Config  Config
	log     *slog.Logger
	solve   func(context.Context, *network.Network, network.Scenario) (*solver.Schedule, error)
}

// New creates a Runner for n.
func New(n *network.Network, cfg Config) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Runner{
		Network: n,
		Config:  cfg,
		log:     cfg.Logger.With("network", n.Name()),
		solve:   solver.Solve,
	}
}

// Run solves each requested scenario, all three when none are given.
// Results come back in request order. The returned error joins every
// per-scenario failure; a failing scenario never affects the others.
func (r *Runner) Run(ctx context.Context, scenarios ...network.Scenario) ([]Result, error) {
	if len(scenarios) == 0 {
		scenarios = network.Scenarios
	}
	for _, sc := range scenarios {
		if !sc.Valid() {
			return nil, fmt.Errorf("%w: unknown scenario %q", network.ErrConfig, sc)
		}
	}

	results := make([]Result, len(scenarios))

	if !r.Config.Parallel {
		for i, sc := range scenarios {
			results[i] = r.runOne(ctx, sc)
		}
		return results, joinErrors(results)
	}

	limit := r.Config.MaxParallel
	if limit <= 0 {
		limit = len(scenarios)
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, sc := range scenarios {
		g.Go(func() error {
			results[i] = r.runOne(ctx, sc)
			return nil
		})
	}
	_ = g.Wait()

	return results, joinErrors(results)
}

// runOne solves sc on its own model; only the network is shared.
func (r *Runner) runOne(ctx context.Context, sc network.Scenario) Result {
	log := r.log.With("scenario", string(sc))
	log.Debug("solving scenario")
	if log.Enabled(ctx, slog.LevelDebug) {
		log.Debug("lp model", "model", solver.Build(r.Network, sc).String())
	}
	start := time.Now()

	res := Result{
		Scenario: sc,
		Cost:     cost.Calculate(r.Network, sc),
	}

	sched, err := r.solve(ctx, r.Network, sc)
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		res.Error = err.Error()
		log.Warn("scenario failed", "err", err, "elapsed", res.Elapsed)
		return res
	}

	res.Status = StatusSolved
	res.Schedule = sched
	log.Info("scenario solved",
		"makespan", sched.Makespan,
		"total_cost", res.Cost.Total,
		"elapsed", res.Elapsed)
	return res
}

func joinErrors(results []Result) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}
