// Package anneal runs the simulated-annealing search that refines one
// initial solution. Grounded on simulated_annealing.py's
// simulated_annealing / acceptance_probability pair; the
// ProcessPoolExecutor-based restart loop lives one layer up in
// internal/coordinator.
package anneal

import (
	"context"
	"math"
	"math/rand"

	"github.com/shiftsolve/shiftsolve/internal/builder"
	"github.com/shiftsolve/shiftsolve/internal/cost"
	"github.com/shiftsolve/shiftsolve/internal/domain"
	"github.com/shiftsolve/shiftsolve/internal/neighbor"
	"github.com/shiftsolve/shiftsolve/internal/progress"
)

// Config is one run's cooling schedule, immutable for the life of Run.
type Config struct {
	InitialTemperature              float64
	CoolingRate                     float64
	MaxIterationsWithoutImprovement int
	ProgressEvery                   int
	CostRecheckEvery                int
}

// Result is the outcome of one annealing run.
type Result struct {
	Assignment  *domain.Assignment
	Cost        float64
	InitialCost float64
	Iterations  int
}

// Run builds an initial solution and anneals it until the temperature
// drops to or below 1, the no-improvement budget is exhausted, or ctx
// is cancelled. Cancellation is checked once per iteration, before the
// next neighbor is generated, per spec.md §5's cancellation policy.
func Run(ctx context.Context, model *domain.Model, weights cost.Weights, cfg Config, rng *rand.Rand, reporter *progress.AnnealReporter) (Result, error) {
	current, err := builder.Build(model, rng)
	if err != nil {
		return Result{}, err
	}

	currentBreakdown := cost.Evaluate(current, model, weights)
	currentCost := currentBreakdown.Total
	currentDeviation := currentBreakdown.PersonStdDev()
	initCost := currentCost

	temperature := cfg.InitialTemperature
	iterationsWithoutImprovement := 0
	iteration := 0

	for temperature > 1 && iterationsWithoutImprovement < cfg.MaxIterationsWithoutImprovement {
		select {
		case <-ctx.Done():
			return Result{Assignment: current, Cost: currentCost, InitialCost: initCost, Iterations: iteration}, ctx.Err()
		default:
		}

		next, ok := neighbor.Generate(current, model, rng)
		if !ok {
			iterationsWithoutImprovement++
			temperature *= cfg.CoolingRate
			iteration++
			continue
		}

		nextBreakdown := cost.Evaluate(next, model, weights)
		nextDeviation := nextBreakdown.PersonStdDev()

		if acceptanceProbability(currentCost, nextBreakdown.Total, temperature, currentDeviation, nextDeviation) > rng.Float64() {
			current = next
			currentCost = nextBreakdown.Total
			currentDeviation = nextDeviation
			iterationsWithoutImprovement = 0
		} else {
			iterationsWithoutImprovement++
		}

		temperature *= cfg.CoolingRate
		iteration++

		if reporter != nil {
			reporter.Report(iteration, currentCost, initCost, temperature)
		}
	}

	return Result{Assignment: current, Cost: currentCost, InitialCost: initCost, Iterations: iteration}, nil
}

// acceptanceProbability implements acceptance_probability literally:
// always accept an improvement in cost or in balance, otherwise accept
// with Metropolis probability exp(-|Δcost|/T).
func acceptanceProbability(oldCost, newCost, temperature, deviationOld, deviationNew float64) float64 {
	if newCost < oldCost || deviationNew < deviationOld {
		return 1
	}
	return math.Exp(-(math.Abs(newCost - oldCost)) / temperature)
}

// TotalIterations estimates the number of cooling steps before
// temperature drops to 1, matching simulated_annealing.py's
// total_iterations used only for progress-bar denominators.
func TotalIterations(cfg Config) int {
	if cfg.InitialTemperature <= 1 || cfg.CoolingRate <= 0 || cfg.CoolingRate >= 1 {
		return 0
	}
	return int(math.Ceil(math.Log(1/cfg.InitialTemperature) / math.Log(cfg.CoolingRate)))
}
