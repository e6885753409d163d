package constraint

import (
	"testing"
	"time"

	"github.com/shiftsolve/shiftsolve/internal/domain"
)

func mustModel() *domain.Model {
	m := domain.NewModel()
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	m.AddShift(&domain.Shift{
		ID:        1,
		Window:    domain.TimeWindow{Start: base, End: base.Add(8 * time.Hour)},
		MaxCap:    2,
		ShiftType: 1,
	})
	m.AddShift(&domain.Shift{
		ID:        2,
		Window:    domain.TimeWindow{Start: base.Add(9 * time.Hour), End: base.Add(17 * time.Hour)},
		MaxCap:    2,
		ShiftType: 1,
	})
	m.AddShift(&domain.Shift{
		ID:        3,
		Window:    domain.TimeWindow{Start: base, End: base.Add(8 * time.Hour)},
		MaxCap:    1,
		Restrict:  true,
		ShiftType: 2,
	})
	m.AddPerson(&domain.Person{
		ID:           10,
		MinRest:      10 * time.Hour,
		AllowedTypes: map[int]domain.ShiftTypeLimit{1: {Max: 2}},
	})
	m.AddPerson(&domain.Person{
		ID:           11,
		AllowedTypes: map[int]domain.ShiftTypeLimit{1: {Max: 2}},
		Preferences:  map[domain.PersonID]domain.PreferenceSign{10: domain.Enemy},
	})
	m.AddPerson(&domain.Person{ID: 12}) // joker, no AllowedTypes
	return m
}

func TestCapacityOK(t *testing.T) {
	m := mustModel()
	a := domain.NewAssignment(m)
	a.Add(3, 12)
	if IsValidAssignment(a, m, 3, 12) {
		t.Fatal("expected capacity violation: shift 3 already at its max of 1")
	}
}

func TestRestrictionOK(t *testing.T) {
	m := mustModel()
	a := domain.NewAssignment(m)
	if IsValidAssignment(a, m, 3, 10) {
		t.Fatal("expected restriction violation: person 10 has no AllowedTypes entry for type 2")
	}
}

func TestMinRestViolation(t *testing.T) {
	m := mustModel()
	a := domain.NewAssignment(m)
	a.Add(1, 10)
	if IsValidAssignment(a, m, 2, 10) {
		t.Fatal("expected min-rest violation: only 1 hour between shift 1 end and shift 2 start")
	}
}

func TestNoEnemyOK(t *testing.T) {
	m := mustModel()
	a := domain.NewAssignment(m)
	a.Add(2, 10)
	if IsValidAssignment(a, m, 2, 11) {
		t.Fatal("expected enemy violation between person 10 and 11 on shift 2")
	}
}

func TestValidAssignmentSucceeds(t *testing.T) {
	m := mustModel()
	a := domain.NewAssignment(m)
	if !IsValidAssignment(a, m, 1, 10) {
		t.Fatal("expected clean assignment to be valid")
	}
}

func TestCheckMandatory(t *testing.T) {
	m := mustModel()
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	m.People[10].Mandatory = []domain.TimeWindow{{Start: base, End: base.Add(8 * time.Hour)}}
	a := domain.NewAssignment(m)
	if CheckMandatory(a, m, 10) {
		t.Fatal("expected mandatory interval to be unsatisfied before assignment")
	}
	a.Add(1, 10)
	if !CheckMandatory(a, m, 10) {
		t.Fatal("expected mandatory interval satisfied once covering shift is assigned")
	}
}
