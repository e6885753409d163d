// Package config holds the solver-facing parameters named in
// spec.md §6's CLI surface — worker count, cooling schedule, RNG seed —
// populated from Cobra flags in cmd/shiftsolve rather than from a
// dedicated config-file library, since the only configuration this
// program needs is exactly the handful of knobs the CLI already
// exposes (godotenv still covers the persistence/auth environment
// variables, unchanged from the teacher).
package config

import (
	"time"

	"github.com/shiftsolve/shiftsolve/internal/anneal"
	"github.com/shiftsolve/shiftsolve/internal/cost"
)

// Solve bundles one run's tunables, independent of where they came
// from (CLI flags, an HTTP request body, a test).
type Solve struct {
	Workers                         int
	InitialTemperature              float64
	CoolingRate                     float64
	MaxIterationsWithoutImprovement int
	Seed                            *int64
	Weights                         cost.Weights
}

// Default mirrors spec.md §8's end-to-end scenario parameters
// (T0=1000, alpha=0.999, K=1000) with a single worker, the safest
// default for a first run.
func Default() Solve {
	return Solve{
		Workers:                         1,
		InitialTemperature:              1000,
		CoolingRate:                     0.999,
		MaxIterationsWithoutImprovement: 1000,
		Weights:                         cost.DefaultWeights(),
	}
}

// AnnealConfig projects a Solve down to the internal/anneal.Config each
// worker runs with.
func (s Solve) AnnealConfig() anneal.Config {
	return anneal.Config{
		InitialTemperature:              s.InitialTemperature,
		CoolingRate:                     s.CoolingRate,
		MaxIterationsWithoutImprovement: s.MaxIterationsWithoutImprovement,
		ProgressEvery:                   333,
	}
}

// EstimatedDuration is a rough wall-clock estimate for progress
// reporting, not used by any termination logic.
func (s Solve) EstimatedDuration() time.Duration {
	iterations := anneal.TotalIterations(s.AnnealConfig())
	return time.Duration(iterations) * time.Millisecond
}
