// Package builder constructs a feasible initial Assignment for a
// domain.Model. It ports create_init.py's create_schedule /
// assign_shifts_person pair, which was already iterative in the
// original (a while loop plus an explicit change stack for
// backtracking) rather than recursive, so the Go port keeps that same
// explicit-stack shape instead of a call-stack recursion — matching
// the "iterative loop, no recursion" Design Note in spec.md §4.3.
package builder

import (
	"math/rand"

	"github.com/shiftsolve/shiftsolve/internal/constraint"
	"github.com/shiftsolve/shiftsolve/internal/domain"
	"github.com/shiftsolve/shiftsolve/internal/solverr"
)

const (
	personAttempts         = 20 // create_schedule's `attempts`
	maxIterationsPerPerson = 20 // assign_shifts_person's `max_iterations`
	maxBacktracks          = 200
	defaultMinShifts       = 4
	defaultMaxShifts       = 5

	// maxFullResets bounds create_schedule's unconditional "exceeded
	// maximum backtracks, reset everything" branch, which in the
	// original has no bound of its own beyond an external process
	// timeout. A goroutine has no such timeout, so this cap turns an
	// unlucky run into a ScheduleCreationError instead of an infinite
	// loop.
	maxFullResets = 50
)

type changeEntry struct {
	person domain.PersonID
	shifts []domain.ShiftID
}

// Build produces a feasible initial Assignment, or a *solverr.Error if
// the model is infeasible (KindCapacity) or construction could not
// converge (KindScheduleCreation).
func Build(model *domain.Model, rng *rand.Rand) (*domain.Assignment, error) {
	if err := checkCapacities(model); err != nil {
		return nil, err
	}

	a := domain.NewAssignment(model)
	people := shuffledPeople(model, rng)

	var changeStack []changeEntry
	backtrackDepth := make(map[domain.PersonID]int)
	resets := 0

	for len(people) > 0 {
		pid := people[len(people)-1]
		people = people[:len(people)-1]

		shiftAssignments, err := assignPersonWithRetries(model, a, pid, rng)
		if err == nil {
			changeStack = append(changeStack, changeEntry{person: pid, shifts: shiftAssignments})
			backtrackDepth[pid] = 0
			continue
		}

		currentDepth := backtrackDepth[pid] + 1
		if len(changeStack) >= currentDepth {
			backtrackDepth[pid] = currentDepth
			for i := 0; i < currentDepth; i++ {
				last := changeStack[len(changeStack)-1]
				changeStack = changeStack[:len(changeStack)-1]
				for _, sid := range last.shifts {
					a.Remove(sid, last.person)
				}
				people = append(people, last.person)
			}
			people = append(people, pid)
			continue
		}

		resets++
		if resets > maxFullResets {
			return nil, solverr.NewScheduleCreationError(
				"failed to converge on a feasible initial solution after %d full resets", maxFullResets,
			)
		}
		a = domain.NewAssignment(model)
		people = shuffledPeople(model, rng)
		changeStack = nil
		backtrackDepth = make(map[domain.PersonID]int)
	}

	if err := checkMandatoryCoverage(a, model); err != nil {
		return nil, err
	}
	return a, nil
}

// assignPersonWithRetries runs up to personAttempts independent passes
// of assignPerson, each starting from pid's shift-less state, stopping
// at the first pass that fills pid's required capacity.
func assignPersonWithRetries(model *domain.Model, a *domain.Assignment, pid domain.PersonID, rng *rand.Rand) ([]domain.ShiftID, error) {
	var lastErr error
	for attempt := 0; attempt < personAttempts; attempt++ {
		history, err := assignPerson(model, a, pid, attempt, rng)
		if err == nil {
			return history, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// assignPerson implements assign_shifts_person: iteratively choose and
// validate shifts for pid until they hold MaxShifts shifts, no candidate
// remains, or maxIterationsPerPerson is exhausted. The attempt succeeds
// if pid ends up with at least MinShifts shifts. Every candidate is
// validated against a before it is added; invalid candidates are
// skipped. On overall failure every shift this attempt assigned is
// rolled back before returning.
func assignPerson(model *domain.Model, a *domain.Assignment, pid domain.PersonID, attempt int, rng *rand.Rand) ([]domain.ShiftID, error) {
	person := model.People[pid]
	capacity := person.MaxShifts
	if capacity <= 0 {
		capacity = defaultMaxShifts
	}
	required := person.MinShifts

	var history []domain.ShiftID
	iteration := 1
	for len(history) < capacity && iteration <= maxIterationsPerPerson {
		sid, ok := chooseShift(model, a, pid, history, iteration, rng)
		if !ok {
			break
		}

		if constraint.IsValidAssignment(a, model, sid, pid) {
			a.Add(sid, pid)
			history = append(history, sid)
		}
		iteration++
	}

	if len(history) < required {
		for _, sid := range history {
			a.Remove(sid, pid)
		}
		return nil, solverr.NewInvalidAssignmentError(
			"person %d could not be assigned all required shifts after %d iterations (attempt %d): assigned %d/%d",
			pid, iteration-1, attempt, len(history), required,
		)
	}
	return history, nil
}

// checkMandatoryCoverage resolves Open Question 4: mandatory intervals
// are a hard constraint checked once at the end of construction, so a
// finished schedule that leaves one uncovered is a construction
// failure rather than a separate soft cost.
func checkMandatoryCoverage(a *domain.Assignment, model *domain.Model) error {
	for _, pid := range model.PeopleOrder {
		if !constraint.CheckMandatory(a, model, pid) {
			return solverr.NewScheduleCreationError("person %d has an uncovered mandatory interval", pid)
		}
	}
	return nil
}

func shuffledPeople(model *domain.Model, rng *rand.Rand) []domain.PersonID {
	people := make([]domain.PersonID, len(model.PeopleOrder))
	copy(people, model.PeopleOrder)
	rng.Shuffle(len(people), func(i, j int) { people[i], people[j] = people[j], people[i] })
	return people
}
