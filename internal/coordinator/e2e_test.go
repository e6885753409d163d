package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/shiftsolve/shiftsolve/internal/anneal"
	"github.com/shiftsolve/shiftsolve/internal/constraint"
	"github.com/shiftsolve/shiftsolve/internal/cost"
	"github.com/shiftsolve/shiftsolve/internal/domain"
)

// e2eCfg is the fixed annealing schedule used by every scenario below:
// small, fast-cooling, and generous enough on retries that a feasible
// toy model always converges within the test timeout.
func e2eCfg() anneal.Config {
	return anneal.Config{InitialTemperature: 50, CoolingRate: 0.9, MaxIterationsWithoutImprovement: 50}
}

func e2eShift(id domain.ShiftID, start time.Time, min, max int) *domain.Shift {
	return &domain.Shift{
		ID:     id,
		Window: domain.TimeWindow{Start: start, End: start.Add(8 * time.Hour)},
		MinCap: min,
		MaxCap: max,
	}
}

// Scenario 1: two people, two shifts, each capacity (1,1), no
// preferences. Every shift must end up with exactly one person, the
// final cost must be finite, and the assignment must satisfy every
// hard constraint.
func TestE2ETwoPeopleTwoShiftsBaseline(t *testing.T) {
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	m := domain.NewModel()
	m.AddShift(e2eShift(1, base, 1, 1))
	m.AddShift(e2eShift(2, base.Add(24*time.Hour), 1, 1))
	m.AddPerson(&domain.Person{ID: 1, MinShifts: 1, MaxShifts: 1})
	m.AddPerson(&domain.Person{ID: 2, MinShifts: 1, MaxShifts: 1})

	seed := int64(42)
	result, err := RunAll(context.Background(), m, cost.DefaultWeights(), e2eCfg(), 1, &seed, nil)
	if err != nil {
		t.Fatalf("expected a feasible solution, got error: %v", err)
	}

	for _, sid := range m.ShiftOrder {
		if got := result.Assignment.ShiftCount(sid); got != 1 {
			t.Errorf("shift %d: want exactly 1 person, got %d", sid, got)
		}
	}
	for pid := range m.People {
		for _, sid := range result.Assignment.Person(pid) {
			if !constraint.IsValidPlacement(result.Assignment, m, sid, pid) {
				t.Errorf("person %d in shift %d violates a hard constraint", pid, sid)
			}
		}
	}
	breakdown := cost.Evaluate(result.Assignment, m, cost.DefaultWeights())
	if breakdown.Total < 0 {
		t.Errorf("want a finite, non-negative total cost, got %v", breakdown.Total)
	}
}

// Scenario 2: A and B are mutual friends, C is neutral. Three shifts
// of capacity (1,2). A and B should end up co-assigned whenever the
// schedule lets them be, since the preference cost rewards it.
func TestE2EFriendsCoAssignedWhenPossible(t *testing.T) {
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	m := domain.NewModel()
	for i := 0; i < 3; i++ {
		m.AddShift(e2eShift(domain.ShiftID(i+1), base.Add(time.Duration(i)*24*time.Hour), 1, 2))
	}
	m.AddPerson(&domain.Person{
		ID: 1, MinShifts: 1, MaxShifts: 3,
		Preferences: map[domain.PersonID]domain.PreferenceSign{2: domain.Friend},
	})
	m.AddPerson(&domain.Person{
		ID: 2, MinShifts: 1, MaxShifts: 3,
		Preferences: map[domain.PersonID]domain.PreferenceSign{1: domain.Friend},
	})
	m.AddPerson(&domain.Person{ID: 3, MinShifts: 1, MaxShifts: 3})

	seed := int64(42)
	result, err := RunAll(context.Background(), m, cost.DefaultWeights(), e2eCfg(), 4, &seed, nil)
	if err != nil {
		t.Fatalf("expected a feasible solution, got error: %v", err)
	}

	coShifts := 0
	for _, sid := range m.ShiftOrder {
		members := result.Assignment.Shift(sid)
		if _, aHere := members[1]; aHere {
			if _, bHere := members[2]; bHere {
				coShifts++
			}
		}
	}
	if coShifts == 0 {
		t.Error("want A and B co-assigned in at least one shift, got none")
	}
}

// Scenario 3: A is an enemy of B. Both must work exactly one shift;
// two shifts of capacity (1,2) are available. A and B must never land
// in the same shift.
func TestE2EEnemiesNeverCoAssigned(t *testing.T) {
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	m := domain.NewModel()
	m.AddShift(e2eShift(1, base, 1, 2))
	m.AddShift(e2eShift(2, base.Add(24*time.Hour), 1, 2))
	m.AddPerson(&domain.Person{
		ID: 1, MinShifts: 1, MaxShifts: 1,
		Preferences: map[domain.PersonID]domain.PreferenceSign{2: domain.Enemy},
	})
	m.AddPerson(&domain.Person{
		ID: 2, MinShifts: 1, MaxShifts: 1,
		Preferences: map[domain.PersonID]domain.PreferenceSign{1: domain.Enemy},
	})

	seed := int64(7)
	result, err := RunAll(context.Background(), m, cost.DefaultWeights(), e2eCfg(), 3, &seed, nil)
	if err != nil {
		t.Fatalf("expected a feasible solution, got error: %v", err)
	}

	for _, sid := range m.ShiftOrder {
		members := result.Assignment.Shift(sid)
		_, aHere := members[1]
		_, bHere := members[2]
		if aHere && bHere {
			t.Errorf("shift %d contains both enemies A and B", sid)
		}
	}
}

// Scenario 4: A is unavailable during S1 [10:00-12:00], which
// overlaps S1's window. A must never be assigned to S1.
func TestE2EUnavailabilityRespected(t *testing.T) {
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	s1Start := day.Add(9 * time.Hour)
	m := domain.NewModel()
	m.AddShift(&domain.Shift{ID: 1, Window: domain.TimeWindow{Start: s1Start, End: s1Start.Add(4 * time.Hour)}, MinCap: 1, MaxCap: 1})
	m.AddShift(e2eShift(2, day.Add(48*time.Hour), 1, 1))

	unavailable := domain.TimeWindow{Start: day.Add(10 * time.Hour), End: day.Add(12 * time.Hour)}
	m.AddPerson(&domain.Person{ID: 1, MinShifts: 1, MaxShifts: 2, Unavailability: []domain.TimeWindow{unavailable}})
	m.AddPerson(&domain.Person{ID: 2, MinShifts: 1, MaxShifts: 2})

	seed := int64(11)
	result, err := RunAll(context.Background(), m, cost.DefaultWeights(), e2eCfg(), 3, &seed, nil)
	if err != nil {
		t.Fatalf("expected a feasible solution, got error: %v", err)
	}

	if result.Assignment.Has(1, 1) {
		t.Error("A must never be assigned to S1, but was")
	}
}

// Scenario 5: a person has allowed_types {stage: (0,1,1)} (min 1, max
// 1 of shift type "stage"), given two stage shifts each (1,1). The
// person must end up on at most one of them.
func TestE2ERestrictedTypeCapacityRespected(t *testing.T) {
	const stageType = 1
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	m := domain.NewModel()
	m.AddShift(&domain.Shift{ID: 1, Window: domain.TimeWindow{Start: base, End: base.Add(8 * time.Hour)}, MinCap: 1, MaxCap: 1, ShiftType: stageType})
	m.AddShift(&domain.Shift{ID: 2, Window: domain.TimeWindow{Start: base.Add(24 * time.Hour), End: base.Add(32 * time.Hour)}, MinCap: 1, MaxCap: 1, ShiftType: stageType})
	m.AddPerson(&domain.Person{
		ID: 1, MinShifts: 1, MaxShifts: 2,
		AllowedTypes: map[int]domain.ShiftTypeLimit{stageType: {Min: 1, Max: 1}},
	})
	m.AddPerson(&domain.Person{
		ID: 2, MinShifts: 0, MaxShifts: 2,
		AllowedTypes: map[int]domain.ShiftTypeLimit{stageType: {Min: 0, Max: 2}},
	})

	seed := int64(3)
	result, err := RunAll(context.Background(), m, cost.DefaultWeights(), e2eCfg(), 3, &seed, nil)
	if err != nil {
		t.Fatalf("expected a feasible solution, got error: %v", err)
	}

	stageCount := 0
	for _, sid := range result.Assignment.Person(1) {
		if m.Shifts[sid].ShiftType == stageType {
			stageCount++
		}
	}
	if stageCount > 1 {
		t.Errorf("person 1 is capped at 1 stage shift, got %d", stageCount)
	}
}

// Scenario 6: the coordinator runs several independently-seeded
// workers against identical input and must return the strictly
// lower-cost (or equal) feasible result; every worker's candidate must
// itself be feasible, so the winner is too.
func TestE2EMultiSeedBestOfNIsFeasible(t *testing.T) {
	m := coordinatorModel()
	seed := int64(123)

	single, err := RunAll(context.Background(), m, cost.DefaultWeights(), e2eCfg(), 1, &seed, nil)
	if err != nil {
		t.Fatalf("expected single-worker solution, got error: %v", err)
	}

	many, err := RunAll(context.Background(), m, cost.DefaultWeights(), e2eCfg(), 6, &seed, nil)
	if err != nil {
		t.Fatalf("expected multi-worker solution, got error: %v", err)
	}

	for pid := range m.People {
		for _, sid := range many.Assignment.Person(pid) {
			if !constraint.IsValidPlacement(many.Assignment, m, sid, pid) {
				t.Errorf("best-of-N winner: person %d in shift %d violates a hard constraint", pid, sid)
			}
		}
	}

	singleBreakdown := cost.Evaluate(single.Assignment, m, cost.DefaultWeights())
	manyBreakdown := cost.Evaluate(many.Assignment, m, cost.DefaultWeights())
	if manyBreakdown.Total > singleBreakdown.Total+1e-9 {
		t.Errorf("best-of-6 (%v) must not be worse than best-of-1 (%v)", manyBreakdown.Total, singleBreakdown.Total)
	}
}
