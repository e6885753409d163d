package neighbor

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shiftsolve/shiftsolve/internal/domain"
)

func neighborModel() *domain.Model {
	m := domain.NewModel()
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	m.AddShift(&domain.Shift{ID: 1, Window: domain.TimeWindow{Start: base, End: base.Add(8 * time.Hour)}, MaxCap: 2, MinCap: 0})
	m.AddShift(&domain.Shift{ID: 2, Window: domain.TimeWindow{Start: base.Add(24 * time.Hour), End: base.Add(32 * time.Hour)}, MaxCap: 2, MinCap: 0})
	m.AddPerson(&domain.Person{ID: 1})
	m.AddPerson(&domain.Person{ID: 2})
	return m
}

func TestGenerateProducesValidNeighbor(t *testing.T) {
	m := neighborModel()
	a := domain.NewAssignment(m)
	a.Add(1, 1)
	a.Add(2, 2)

	rng := rand.New(rand.NewSource(7))
	next, ok := Generate(a, m, rng)
	if !ok {
		t.Fatal("expected a neighbor to be found")
	}
	if next == a {
		t.Fatal("expected Generate to return a distinct clone")
	}
	// original assignment must be untouched
	if !a.Has(1, 1) || !a.Has(2, 2) {
		t.Fatal("Generate must not mutate the input assignment")
	}
}

func TestGenerateRequiresAtLeastTwoAssignedPeople(t *testing.T) {
	m := neighborModel()
	a := domain.NewAssignment(m)
	a.Add(1, 1)

	rng := rand.New(rand.NewSource(3))
	if _, ok := Generate(a, m, rng); ok {
		t.Fatal("expected no neighbor with fewer than two assigned people")
	}
}
