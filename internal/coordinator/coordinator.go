// Package coordinator runs several independent annealing searches
// concurrently and keeps the best result. Grounded on
// simulated_annealing.py's run_parallel_simulated_annealing, with
// goroutines and a channel standing in for ProcessPoolExecutor.map —
// the idiomatic Go analogue for this kind of embarrassingly parallel
// restart, per the worker-pool shape seen across the retrieval pack.
package coordinator

import (
	"context"
	"math/rand"
	"strconv"

	"go.uber.org/zap"

	"github.com/shiftsolve/shiftsolve/internal/anneal"
	"github.com/shiftsolve/shiftsolve/internal/cost"
	"github.com/shiftsolve/shiftsolve/internal/domain"
	"github.com/shiftsolve/shiftsolve/internal/progress"
	"github.com/shiftsolve/shiftsolve/internal/solverr"
)

// workerResult pairs one worker's outcome with its index, so errors
// can be attributed without a worker needing to know its own identity
// ahead of time.
type workerResult struct {
	index  int
	result anneal.Result
	err    error
}

// RunAll launches n independent annealing workers against the same
// read-only model, each with its own *rand.Rand seeded from baseSeed
// (or from the package-level source if baseSeed is nil — never a
// shared *rand.Rand, unlike the teacher's AssignSimple global-RNG
// pattern). It returns the lowest-cost result among workers that
// produced one; if every worker failed, it returns ErrNoSolution,
// except that a capacity or not-found error (raised by the shared
// model, so the same in every worker) is returned as is.
func RunAll(ctx context.Context, model *domain.Model, weights cost.Weights, cfg anneal.Config, n int, baseSeed *int64, logger *zap.Logger) (anneal.Result, error) {
	if n <= 0 {
		n = 1
	}

	results := make(chan workerResult, n)
	for i := 0; i < n; i++ {
		seed := workerSeed(baseSeed, i)
		go func(idx int, seed int64) {
			rng := rand.New(rand.NewSource(seed))
			var reporter *progress.AnnealReporter
			if logger != nil {
				reporter = progress.NewAnnealReporter(logger, workerID(idx), anneal.TotalIterations(cfg), cfg.ProgressEvery)
			}
			result, err := anneal.Run(ctx, model, weights, cfg, rng, reporter)
			results <- workerResult{index: idx, result: result, err: err}
		}(i, seed)
	}

	var best *anneal.Result
	var lastErr error
	for i := 0; i < n; i++ {
		wr := <-results
		if wr.err != nil {
			lastErr = wr.err
			continue
		}
		if best == nil || wr.result.Cost < best.Cost {
			r := wr.result
			best = &r
		}
	}

	if best == nil {
		if solverr.IsKind(lastErr, solverr.KindCapacity) || solverr.IsKind(lastErr, solverr.KindNotFound) {
			return anneal.Result{}, lastErr
		}
		return anneal.Result{}, solverr.ErrNoSolution
	}
	return *best, nil
}

func workerSeed(baseSeed *int64, index int) int64 {
	if baseSeed == nil {
		return rand.Int63() ^ int64(index)
	}
	return *baseSeed + int64(index)
}

func workerID(index int) string {
	return "worker-" + strconv.Itoa(index)
}
