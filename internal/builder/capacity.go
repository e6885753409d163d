package builder

import (
	"github.com/shiftsolve/shiftsolve/internal/domain"
	"github.com/shiftsolve/shiftsolve/internal/solverr"
)

// checkCapacities runs the pre-search feasibility checks from spec.md
// §4.3 step 1: per shift-type, the sum of shift max capacities must
// cover the sum of person min capacities for that type, and totals
// must line up across persons and shifts overall. Grounded on
// create_init.py's check_shift_type_capacity / check_total_capacity.
func checkCapacities(model *domain.Model) error {
	if err := checkShiftTypeCapacity(model); err != nil {
		return err
	}
	return checkTotalCapacity(model)
}

func checkShiftTypeCapacity(model *domain.Model) error {
	minByType := make(map[int]int)
	for _, pid := range model.PeopleOrder {
		person := model.People[pid]
		for shiftType, limit := range person.AllowedTypes {
			minByType[shiftType] += limit.Min
		}
	}

	maxByType := make(map[int]int)
	unboundedType := make(map[int]bool)
	for _, sid := range model.ShiftOrder {
		shift := model.Shifts[sid]
		if shift.Unbounded() {
			unboundedType[shift.ShiftType] = true
			continue
		}
		maxByType[shift.ShiftType] += shift.MaxCap
	}

	for shiftType, minRequired := range minByType {
		if unboundedType[shiftType] {
			continue
		}
		if maxByType[shiftType] < minRequired {
			return solverr.NewCapacityError(
				"insufficient capacity for shift type %d: maximum capacity available is %d, but at least %d slots are required",
				shiftType, maxByType[shiftType], minRequired,
			)
		}
	}
	return nil
}

func checkTotalCapacity(model *domain.Model) error {
	totalMinPerson, totalMaxPerson := 0, 0
	for _, pid := range model.PeopleOrder {
		person := model.People[pid]
		totalMinPerson += person.MinShifts
		totalMaxPerson += person.MaxShifts
	}

	totalMinShift, totalMaxShift := 0, 0
	anyUnbounded := false
	for _, sid := range model.ShiftOrder {
		shift := model.Shifts[sid]
		totalMinShift += shift.MinCap
		if shift.Unbounded() {
			anyUnbounded = true
			continue
		}
		totalMaxShift += shift.MaxCap
	}

	if !anyUnbounded && totalMaxShift < totalMinPerson {
		return solverr.NewCapacityError(
			"insufficient total shift capacity: maximum shift capacity (%d) is less than the minimum required person capacity (%d)",
			totalMaxShift, totalMinPerson,
		)
	}
	if totalMinShift > totalMaxPerson {
		return solverr.NewCapacityError(
			"insufficient total shift capacity: minimum shift capacity (%d) exceeds the maximum person capacity (%d)",
			totalMinShift, totalMaxPerson,
		)
	}
	return nil
}
