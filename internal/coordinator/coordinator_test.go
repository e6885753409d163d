package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/shiftsolve/shiftsolve/internal/anneal"
	"github.com/shiftsolve/shiftsolve/internal/cost"
	"github.com/shiftsolve/shiftsolve/internal/domain"
)

func coordinatorModel() *domain.Model {
	m := domain.NewModel()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
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

func TestRunAllReturnsBestOfSeveralWorkers(t *testing.T) {
	m := coordinatorModel()
	seed := int64(99)
	cfg := anneal.Config{InitialTemperature: 30, CoolingRate: 0.85, MaxIterationsWithoutImprovement: 30}

	result, err := RunAll(context.Background(), m, cost.DefaultWeights(), cfg, 4, &seed, nil)
	if err != nil {
		t.Fatalf("expected a solution, got error: %v", err)
	}
	if result.Assignment == nil {
		t.Fatal("expected a non-nil assignment from the best worker")
	}
}

func TestRunAllReturnsNoSolutionWhenInfeasible(t *testing.T) {
	m := domain.NewModel()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	m.AddShift(&domain.Shift{ID: 1, Window: domain.TimeWindow{Start: base, End: base.Add(8 * time.Hour)}, MaxCap: 1, MinCap: 1})
	for i := 0; i < 5; i++ {
		m.AddPerson(&domain.Person{ID: domain.PersonID(i + 1), MinShifts: 1, MaxShifts: 1})
	}
	seed := int64(1)
	cfg := anneal.Config{InitialTemperature: 10, CoolingRate: 0.9, MaxIterationsWithoutImprovement: 10}

	_, err := RunAll(context.Background(), m, cost.DefaultWeights(), cfg, 3, &seed, nil)
	if err == nil {
		t.Fatal("expected every worker to fail on an infeasible model")
	}
}
