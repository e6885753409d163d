package builder

import (
	"math/rand"

	"github.com/shiftsolve/shiftsolve/internal/domain"
)

const (
	weightRestrictedShift         = 100.0
	weightBelowPersonMinCapacity  = 15.0
	weightShiftPriority           = 10.0
	weightBelowShiftMinCapacity   = 15.0
	diversificationBaseProbabilty = 0.23
	diversificationStep           = 0.10
)

// chooseShift picks the next shift to try for pid, replicating
// create_init.py's choose_shift: filter to shifts with remaining
// capacity that pid isn't already tentatively holding, score each by
// four weighted criteria, and make a weighted-random pick across the
// scored candidates. attempt is choose_shift's "iteration" factor and
// feeds both the diversification-hedge probability and its bonus
// range. Returns false if no candidate shift remains.
func chooseShift(model *domain.Model, a *domain.Assignment, pid domain.PersonID, history []domain.ShiftID, attempt int, rng *rand.Rand) (domain.ShiftID, bool) {
	person := model.People[pid]

	assignedTypeCounts := make(map[int]int, len(history))
	for _, sid := range history {
		if s, ok := model.Shifts[sid]; ok {
			assignedTypeCounts[s.ShiftType]++
		}
	}

	alreadyHeld := make(map[domain.ShiftID]struct{}, len(history))
	for _, sid := range history {
		alreadyHeld[sid] = struct{}{}
	}

	var candidates []domain.ShiftID
	for _, sid := range model.ShiftOrder {
		shift := model.Shifts[sid]
		if _, held := alreadyHeld[sid]; held {
			continue
		}
		if !shift.Unbounded() && a.ShiftCount(sid) >= shift.MaxCap {
			continue
		}
		limit, hasLimit := person.AllowedTypes[shift.ShiftType]
		if hasLimit && limit.Max != 0 && assignedTypeCounts[shift.ShiftType] >= limit.Max {
			continue
		}
		candidates = append(candidates, sid)
	}
	if len(candidates) == 0 {
		return 0, false
	}

	scores := make([]float64, len(candidates))
	for i, sid := range candidates {
		scores[i] = scoreShift(model, a, person, sid, assignedTypeCounts, attempt, rng)
	}

	total := 0.0
	for _, s := range scores {
		total += s
	}
	if total <= 0 {
		return candidates[rng.Intn(len(candidates))], true
	}

	pick := rng.Float64() * total
	cumulative := 0.0
	for i, s := range scores {
		cumulative += s
		if pick < cumulative {
			return candidates[i], true
		}
	}
	return candidates[len(candidates)-1], true
}

// scoreShift implements calculate_individual_shift_score: a random
// diversification bonus fires with probability 0.23+0.10*attempt and
// preempts the four weighted criteria entirely for this candidate.
func scoreShift(model *domain.Model, a *domain.Assignment, person *domain.Person, sid domain.ShiftID, assignedTypeCounts map[int]int, attempt int, rng *rand.Rand) float64 {
	shift := model.Shifts[sid]

	if rng.Float64() < diversificationBaseProbabilty+float64(attempt)*diversificationStep {
		avgWeight := (weightRestrictedShift + weightBelowPersonMinCapacity + weightShiftPriority + weightBelowShiftMinCapacity) / 4
		maxBonus := int(avgWeight * float64(attempt))
		if maxBonus < 1 {
			maxBonus = 1
		}
		return float64(1 + rng.Intn(maxBonus))
	}

	score := 0.0
	limit, hasLimit := person.AllowedTypes[shift.ShiftType]
	assignedCount := assignedTypeCounts[shift.ShiftType]

	if shift.Restrict && hasLimit && (limit.Max == 0 || assignedCount < limit.Max) {
		score += weightRestrictedShift
	}
	if hasLimit && assignedCount < limit.Min {
		score += weightBelowPersonMinCapacity
	}
	score += float64(shift.Priority) * weightShiftPriority
	if a.ShiftCount(sid) < shift.MinCap {
		score += weightBelowShiftMinCapacity
	}
	return score
}
