package domain

// Assignment is the decision variable: who works which shift. It keeps
// a shift->people map and its person->shifts inverse consistent at all
// times; callers never touch the underlying maps directly so the two
// views cannot drift apart (the teacher's Scheduler kept Shift.Assigned
// and Volunteer.AssignedShifts as two hand-synchronized slices — this
// type makes that synchronization a structural guarantee instead).
type Assignment struct {
	byShift  map[ShiftID]map[PersonID]struct{}
	byPerson map[PersonID][]ShiftID
}

// NewAssignment returns an empty assignment with every shift present
// (so callers can always range over Shifts without a nil-map check).
func NewAssignment(model *Model) *Assignment {
	a := &Assignment{
		byShift:  make(map[ShiftID]map[PersonID]struct{}, len(model.Shifts)),
		byPerson: make(map[PersonID][]ShiftID),
	}
	for sid := range model.Shifts {
		a.byShift[sid] = make(map[PersonID]struct{})
	}
	return a
}

// Add assigns pid to sid. It is a no-op if already assigned.
func (a *Assignment) Add(sid ShiftID, pid PersonID) {
	if a.byShift[sid] == nil {
		a.byShift[sid] = make(map[PersonID]struct{})
	}
	if _, ok := a.byShift[sid][pid]; ok {
		return
	}
	a.byShift[sid][pid] = struct{}{}
	a.byPerson[pid] = append(a.byPerson[pid], sid)
}

// Remove unassigns pid from sid. It is a no-op if not assigned.
func (a *Assignment) Remove(sid ShiftID, pid PersonID) {
	if _, ok := a.byShift[sid][pid]; !ok {
		return
	}
	delete(a.byShift[sid], pid)
	shifts := a.byPerson[pid]
	for i, s := range shifts {
		if s == sid {
			a.byPerson[pid] = append(shifts[:i], shifts[i+1:]...)
			break
		}
	}
	if len(a.byPerson[pid]) == 0 {
		delete(a.byPerson, pid)
	}
}

// Has reports whether pid is currently assigned to sid.
func (a *Assignment) Has(sid ShiftID, pid PersonID) bool {
	_, ok := a.byShift[sid][pid]
	return ok
}

// Shift returns the set of people assigned to sid (do not mutate).
func (a *Assignment) Shift(sid ShiftID) map[PersonID]struct{} {
	return a.byShift[sid]
}

// ShiftCount returns how many people are assigned to sid.
func (a *Assignment) ShiftCount(sid ShiftID) int {
	return len(a.byShift[sid])
}

// Person returns the shifts assigned to pid (do not mutate).
func (a *Assignment) Person(pid PersonID) []ShiftID {
	return a.byPerson[pid]
}

// PersonCount returns how many shifts pid is assigned to.
func (a *Assignment) PersonCount(pid PersonID) int {
	return len(a.byPerson[pid])
}

// People returns the ids of everyone with at least one assigned shift.
func (a *Assignment) People() []PersonID {
	out := make([]PersonID, 0, len(a.byPerson))
	for pid := range a.byPerson {
		out = append(out, pid)
	}
	return out
}

// Clone returns a deep copy safe for independent mutation, used by the
// Neighbor Generator's tentative moves.
func (a *Assignment) Clone() *Assignment {
	out := &Assignment{
		byShift:  make(map[ShiftID]map[PersonID]struct{}, len(a.byShift)),
		byPerson: make(map[PersonID][]ShiftID, len(a.byPerson)),
	}
	for sid, people := range a.byShift {
		m := make(map[PersonID]struct{}, len(people))
		for pid := range people {
			m[pid] = struct{}{}
		}
		out.byShift[sid] = m
	}
	for pid, shifts := range a.byPerson {
		s := make([]ShiftID, len(shifts))
		copy(s, shifts)
		out.byPerson[pid] = s
	}
	return out
}
