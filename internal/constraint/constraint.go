// Package constraint implements the hard-constraint predicate suite
// shared by the initial-solution builder and the neighbor generator.
// Every sub-check is a pure function of its inputs so callers can
// speculatively mutate an Assignment, test validity, and roll back
// without side effects leaking between attempts — grounded on
// hard_constraints.py's is_valid_assignment decomposition.
package constraint

import (
	"sort"

	"github.com/shiftsolve/shiftsolve/internal/domain"
)

// IsValidAssignment reports whether placing pid into sid would be valid
// given a's current state — it does not mutate a. Callers add the
// placement only after this returns true, so a failed attempt never
// needs a rollback.
func IsValidAssignment(a *domain.Assignment, model *domain.Model, sid domain.ShiftID, pid domain.PersonID) bool {
	return checkAssignment(a, model, sid, pid, 1)
}

// IsValidPlacement reports whether pid's current membership in sid
// satisfies every hard constraint, for callers (the neighbor generator)
// that mutate a speculative clone before validating it — mirroring
// is_valid_assignment as called in swap_or_move_shift, which runs
// against a schedule that already contains the tentative move.
func IsValidPlacement(a *domain.Assignment, model *domain.Model, sid domain.ShiftID, pid domain.PersonID) bool {
	return checkAssignment(a, model, sid, pid, 0)
}

// checkAssignment is the shared rule suite; pending is 1 when pid is
// not yet reflected in a's counts (IsValidAssignment) and 0 when it
// already is (IsValidPlacement).
func checkAssignment(a *domain.Assignment, model *domain.Model, sid domain.ShiftID, pid domain.PersonID, pending int) bool {
	shift, ok := model.Shifts[sid]
	if !ok {
		return false
	}
	person, ok := model.People[pid]
	if !ok {
		return false
	}

	if !capacityOK(a, shift, pending) {
		return false
	}
	if !typeCapacityOK(a, model, person, shift, pending) {
		return false
	}
	if !restrictionOK(person, shift) {
		return false
	}
	if !minRestOK(a, model, person, pid, shift, pending) {
		return false
	}
	if !availabilityOK(person, shift) {
		return false
	}
	if !noEnemyOK(a, person, sid) {
		return false
	}
	return true
}

// capacityOK enforces invariant 1: |Assignment[sid]| (plus any pending
// addition) must not exceed shift.max, unless max==0 (unbounded).
func capacityOK(a *domain.Assignment, shift *domain.Shift, pending int) bool {
	if shift.Unbounded() {
		return true
	}
	return a.ShiftCount(shift.ID)+pending <= shift.MaxCap
}

// typeCapacityOK enforces invariant 7: per-shift-type counts respect
// the person's per-type max (0 == unbounded).
func typeCapacityOK(a *domain.Assignment, model *domain.Model, person *domain.Person, shift *domain.Shift, pending int) bool {
	limit, ok := person.AllowedTypes[shift.ShiftType]
	if !ok || limit.Max == 0 {
		return true
	}
	count := countShiftType(a, model, person.ID, shift.ShiftType)
	return count+pending <= limit.Max
}

// countShiftType counts how many shifts of shiftType are currently
// assigned to pid.
func countShiftType(a *domain.Assignment, model *domain.Model, pid domain.PersonID, shiftType int) int {
	count := 0
	for _, sid := range a.Person(pid) {
		if s, ok := model.Shifts[sid]; ok && s.ShiftType == shiftType {
			count++
		}
	}
	return count
}

// restrictionOK enforces invariant 6: a restricted shift may only take
// people whose allowed-type map contains that shift type.
func restrictionOK(person *domain.Person, shift *domain.Shift) bool {
	if !shift.Restrict {
		return true
	}
	_, ok := person.AllowedTypes[shift.ShiftType]
	return ok
}

// minRestOK enforces invariant 3. The person's assigned shifts (plus
// the candidate, if pending) are sorted by start time and compared
// pairwise — starts[i] - ends[i-1] must be >= MinRest. This mirrors
// check_min_break's literal definition rather than a general overlap
// check (see SPEC_FULL.md §4.1).
func minRestOK(a *domain.Assignment, model *domain.Model, person *domain.Person, pid domain.PersonID, candidate *domain.Shift, pending int) bool {
	shiftIDs := a.Person(pid)
	windows := make([]domain.TimeWindow, 0, len(shiftIDs)+pending)
	if pending == 1 {
		windows = append(windows, candidate.Window)
	}
	for _, sid := range shiftIDs {
		if s, ok := model.Shifts[sid]; ok {
			windows = append(windows, s.Window)
		}
	}
	if len(windows) < 2 {
		return true
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	for i := 1; i < len(windows); i++ {
		gap := windows[i].Start.Sub(windows[i-1].End)
		if gap < person.MinRest {
			return false
		}
	}
	return true
}

// availabilityOK enforces invariant 4: the shift must not overlap any
// unavailability interval of the person (day-off intervals are merged
// into Unavailability at ingestion).
func availabilityOK(person *domain.Person, shift *domain.Shift) bool {
	for _, window := range person.Unavailability {
		if shift.Window.Overlaps(window) {
			return false
		}
	}
	return true
}

// noEnemyOK enforces invariant 5: no two people with an Enemy
// preference may co-occur in the same shift.
func noEnemyOK(a *domain.Assignment, person *domain.Person, sid domain.ShiftID) bool {
	if len(person.Preferences) == 0 {
		return true
	}
	for other := range a.Shift(sid) {
		if other == person.ID {
			continue
		}
		if sign, ok := person.Preferences[other]; ok && sign == domain.Enemy {
			return false
		}
	}
	return true
}

// CheckMandatory asserts that every mandatory interval of pid is fully
// covered by at least one shift assigned to them. It is invoked once at
// the end of construction (not per-attempt) because covering a
// mandatory interval may require multiple shifts to accumulate.
func CheckMandatory(a *domain.Assignment, model *domain.Model, pid domain.PersonID) bool {
	person, ok := model.People[pid]
	if !ok || len(person.Mandatory) == 0 {
		return true
	}
	satisfied := make(map[domain.TimeWindow]bool, len(person.Mandatory))
	for _, sid := range a.Person(pid) {
		shift, ok := model.Shifts[sid]
		if !ok {
			continue
		}
		for _, mandatory := range person.Mandatory {
			if shift.Window.Contains(mandatory) {
				satisfied[mandatory] = true
			}
		}
	}
	return len(satisfied) >= len(person.Mandatory)
}
