// Package neighbor generates candidate moves for the annealing search:
// either relocating one person's shift or swapping two people's
// shifts, whichever keeps every hard constraint satisfied. Grounded on
// hard_constraints.py's swap_or_move_shift / get_neighbor pair.
package neighbor

import (
	"math/rand"

	"github.com/shiftsolve/shiftsolve/internal/constraint"
	"github.com/shiftsolve/shiftsolve/internal/domain"
)

// MaxAttempts bounds get_neighbor's retry loop.
const MaxAttempts = 10000

// swapProbability is swap_or_move_shift's literal 0.66 tie-break
// between a move and a swap when both shifts have room.
const swapProbability = 0.66

// Generate returns a feasible neighbor of a, cloned so the caller's
// assignment is untouched on both success and failure. ok is false
// when fewer than two people hold shifts, or when no valid move or swap
// was found within MaxAttempts attempts, mirroring get_neighbor's "return the original solution"
// fallback (the caller keeps using its own a in that case).
func Generate(a *domain.Assignment, model *domain.Model, rng *rand.Rand) (*domain.Assignment, bool) {
	people := a.People()
	if len(people) < 2 {
		return nil, false
	}

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if next, ok := attemptMove(a, model, people, rng); ok {
			return next, true
		}
	}
	return nil, false
}

// attemptMove implements one pass of swap_or_move_shift: pick two
// distinct (person, shift) pairs and either relocate person A's shift
// to B's shift, or swap the two shifts between A and B, depending on
// available capacity.
func attemptMove(a *domain.Assignment, model *domain.Model, people []domain.PersonID, rng *rand.Rand) (*domain.Assignment, bool) {
	personA := people[rng.Intn(len(people))]
	shiftsA := a.Person(personA)
	if len(shiftsA) == 0 {
		return nil, false
	}
	shiftA := shiftsA[rng.Intn(len(shiftsA))]

	personB := people[rng.Intn(len(people))]
	shiftsB := a.Person(personB)
	if len(shiftsB) == 0 {
		return nil, false
	}
	shiftB := shiftsB[rng.Intn(len(shiftsB))]

	if personA == personB || shiftA == shiftB {
		return nil, false
	}

	modelShiftA := model.Shifts[shiftA]
	modelShiftB := model.Shifts[shiftB]
	if modelShiftA == nil || modelShiftB == nil {
		return nil, false
	}

	countA := a.ShiftCount(shiftA)
	countB := a.ShiftCount(shiftB)

	preferMove := countA > modelShiftA.MinCap && (countB < modelShiftB.MinCap ||
		(shiftBHasRoom(modelShiftB, countB) && rng.Float64() < swapProbability))

	if preferMove {
		return tryMove(a, model, personA, shiftA, shiftB)
	}
	return trySwap(a, model, personA, shiftA, personB, shiftB)
}

func shiftBHasRoom(shift *domain.Shift, count int) bool {
	return shift.Unbounded() || count < shift.MaxCap
}

// tryMove relocates personA from shiftA to shiftB on a clone, returning
// the clone only if the relocation is itself hard-constraint-valid.
func tryMove(a *domain.Assignment, model *domain.Model, personA domain.PersonID, shiftA, shiftB domain.ShiftID) (*domain.Assignment, bool) {
	next := a.Clone()
	next.Remove(shiftA, personA)
	next.Add(shiftB, personA)

	if !constraint.IsValidPlacement(next, model, shiftB, personA) {
		return nil, false
	}
	return next, true
}

// trySwap exchanges personA and personB between shiftA and shiftB on a
// clone, returning the clone only if both new placements are valid.
func trySwap(a *domain.Assignment, model *domain.Model, personA domain.PersonID, shiftA domain.ShiftID, personB domain.PersonID, shiftB domain.ShiftID) (*domain.Assignment, bool) {
	next := a.Clone()
	next.Remove(shiftA, personA)
	next.Add(shiftB, personA)
	next.Remove(shiftB, personB)
	next.Add(shiftA, personB)

	if !constraint.IsValidPlacement(next, model, shiftB, personA) {
		return nil, false
	}
	if !constraint.IsValidPlacement(next, model, shiftA, personB) {
		return nil, false
	}
	return next, true
}
