// Package engine is the thin orchestration layer shared by the CLI's
// solve command and the HTTP API handler: coordinator.RunAll →
// cost.Evaluate on an already-ingested model, so both entry points run
// the identical sequence instead of the CLI and the HTTP layer each
// re-implementing it.
package engine

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shiftsolve/shiftsolve/internal/config"
	"github.com/shiftsolve/shiftsolve/internal/coordinator"
	"github.com/shiftsolve/shiftsolve/internal/cost"
	"github.com/shiftsolve/shiftsolve/internal/domain"
)

// Result is one completed solve: the winning worker's assignment, its
// full cost breakdown, and the raw annealing statistics. RunID
// correlates this result with its progress-reporter log lines.
type Result struct {
	RunID       string
	Assignment  *domain.Assignment
	Breakdown   cost.Breakdown
	InitialCost float64
}

// Solve runs the parallel coordinator against model with cfg's
// parameters and evaluates the final cost breakdown of the winning
// worker. logger may be nil to suppress progress reporting; when it is
// set, every log line from this run carries a freshly generated run id
// so concurrent solves (e.g. two HTTP requests) don't interleave in the
// log stream.
func Solve(ctx context.Context, model *domain.Model, cfg config.Solve, logger *zap.Logger) (Result, error) {
	runID := uuid.NewString()
	if logger != nil {
		logger = logger.With(zap.String("run_id", runID))
	}

	annealCfg := cfg.AnnealConfig()
	best, err := coordinator.RunAll(ctx, model, cfg.Weights, annealCfg, cfg.Workers, cfg.Seed, logger)
	if err != nil {
		return Result{}, err
	}

	breakdown := cost.Evaluate(best.Assignment, model, cfg.Weights)
	return Result{
		RunID:       runID,
		Assignment:  best.Assignment,
		Breakdown:   breakdown,
		InitialCost: best.InitialCost,
	}, nil
}
