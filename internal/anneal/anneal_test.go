package anneal

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shiftsolve/shiftsolve/internal/cost"
	"github.com/shiftsolve/shiftsolve/internal/domain"
)

func annealModel() *domain.Model {
	m := domain.NewModel()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		m.AddShift(&domain.Shift{
			ID:     domain.ShiftID(i + 1),
			Window: domain.TimeWindow{Start: start, End: start.Add(8 * time.Hour)},
			MaxCap: 2,
			MinCap: 1,
		})
	}
	for i := 0; i < 4; i++ {
		m.AddPerson(&domain.Person{
			ID:        domain.PersonID(i + 1),
			MinShifts: 1,
			MaxShifts: 3,
			MinRest:   4 * time.Hour,
		})
	}
	return m
}

func TestRunProducesFeasibleResult(t *testing.T) {
	m := annealModel()
	rng := rand.New(rand.NewSource(11))
	cfg := Config{InitialTemperature: 50, CoolingRate: 0.9, MaxIterationsWithoutImprovement: 50}

	result, err := Run(context.Background(), m, cost.DefaultWeights(), cfg, rng, nil)
	if err != nil {
		t.Fatalf("expected annealing to succeed, got %v", err)
	}
	if result.Assignment == nil {
		t.Fatal("expected a non-nil assignment")
	}
	if result.Cost > result.InitialCost*10 {
		t.Fatalf("final cost %v unexpectedly far above initial cost %v", result.Cost, result.InitialCost)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	m := annealModel()
	rng := rand.New(rand.NewSource(5))
	cfg := Config{InitialTemperature: 1000, CoolingRate: 0.999, MaxIterationsWithoutImprovement: 1_000_000}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, m, cost.DefaultWeights(), cfg, rng, nil)
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
}
