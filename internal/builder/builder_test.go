package builder

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shiftsolve/shiftsolve/internal/domain"
	"github.com/shiftsolve/shiftsolve/internal/solverr"
)

func simpleModel() *domain.Model {
	m := domain.NewModel()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		m.AddShift(&domain.Shift{
			ID:     domain.ShiftID(i + 1),
			Window: domain.TimeWindow{Start: start, End: start.Add(8 * time.Hour)},
			MaxCap: 2,
			MinCap: 1,
		})
	}
	for i := 0; i < 3; i++ {
		m.AddPerson(&domain.Person{
			ID:        domain.PersonID(i + 1),
			MinShifts: 1,
			MaxShifts: 2,
			MinRest:   4 * time.Hour,
		})
	}
	return m
}

func TestBuildProducesFeasibleSolution(t *testing.T) {
	m := simpleModel()
	rng := rand.New(rand.NewSource(42))
	a, err := Build(m, rng)
	if err != nil {
		t.Fatalf("expected a feasible build, got error: %v", err)
	}
	for _, pid := range m.PeopleOrder {
		if a.PersonCount(pid) < m.People[pid].MinShifts {
			t.Fatalf("person %d assigned %d shifts, below minimum %d", pid, a.PersonCount(pid), m.People[pid].MinShifts)
		}
	}
}

func TestBuildReportsCapacityError(t *testing.T) {
	m := domain.NewModel()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	m.AddShift(&domain.Shift{ID: 1, Window: domain.TimeWindow{Start: base, End: base.Add(8 * time.Hour)}, MaxCap: 1, MinCap: 1})
	for i := 0; i < 5; i++ {
		m.AddPerson(&domain.Person{ID: domain.PersonID(i + 1), MinShifts: 1, MaxShifts: 1})
	}
	rng := rand.New(rand.NewSource(1))
	_, err := Build(m, rng)
	if !solverr.IsKind(err, solverr.KindCapacity) {
		t.Fatalf("expected a capacity error, got %v", err)
	}
}
