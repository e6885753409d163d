// Package cost implements the soft-preference objective: a pure
// function from an Assignment to a scalar (and its per-person
// breakdown), used both to rank restart results and to drive the
// Metropolis acceptance test during annealing. Grounded on
// cost_calculation.py's cost_function / individual_cost decomposition,
// generalized from the original's flat person/shift index arrays to
// the domain package's map-based model.
package cost

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/shiftsolve/shiftsolve/internal/domain"
)

// PersonBreakdown itemizes one person's contribution to the objective,
// mirroring check_person_costs's per-person printout.
type PersonBreakdown struct {
	Preference float64
	OffDay     float64
	Ranking    float64
	ShiftType  float64
	Category   float64
}

func (b PersonBreakdown) Total() float64 {
	return b.Preference + b.OffDay + b.Ranking + b.ShiftType + b.Category
}

// Breakdown is the full decomposition returned by Evaluate.
type Breakdown struct {
	PerPerson map[domain.PersonID]PersonBreakdown

	PriorityCost   float64
	GenderCost     float64
	ExperienceCost float64
	BalanceCost    float64

	Total float64
}

// PersonStdDev returns the standard deviation of per-person totals,
// the same quantity simulated_annealing.py tracks as
// deviation_individual_cost to break ties in acceptance_probability.
func (b Breakdown) PersonStdDev() float64 {
	if len(b.PerPerson) < 2 {
		return 0
	}
	totals := make([]float64, 0, len(b.PerPerson))
	for _, pb := range b.PerPerson {
		totals = append(totals, pb.Total())
	}
	return stat.StdDev(totals, nil)
}

// Evaluate computes the complete objective for a. It reads only a and
// model and allocates no shared state, so it is safe to call
// concurrently from multiple search workers.
func Evaluate(a *domain.Assignment, model *domain.Model, w Weights) Breakdown {
	b := Breakdown{PerPerson: make(map[domain.PersonID]PersonBreakdown, len(model.People))}

	individualSum := 0.0
	totals := make([]float64, 0, len(model.People))

	for _, pid := range model.PeopleOrder {
		person := model.People[pid]
		pb := PersonBreakdown{
			Preference: preferenceCost(a, model, person, w),
			OffDay:     offDayCost(a, model, person, w),
			Ranking:    rankingCost(a, model, person, w),
			ShiftType:  shiftTypeCost(a, model, person, w),
			Category:   categoryCost(a, model, person, w),
		}
		b.PerPerson[pid] = pb
		total := pb.Total()
		individualSum += total
		totals = append(totals, total)
	}

	b.PriorityCost = priorityCost(a, model)
	b.GenderCost = genderCost(a, model, w)
	b.ExperienceCost = experienceCost(a, model, w)
	b.BalanceCost = balanceCost(totals, w)

	b.Total = individualSum + b.PriorityCost + b.GenderCost + b.ExperienceCost + b.BalanceCost
	return b
}

// preferenceCost implements spec.md §4.2's friend/enemy formula:
// max(|F|*|Inverse[pid]| - friends_count, 0)*FriendFactor +
// enemies_count*EnemyFactor, where friends_count/enemies_count credit
// both same-shift co-occurrence and same-start-time co-occurrence on a
// different shift.
func preferenceCost(a *domain.Assignment, model *domain.Model, person *domain.Person, w Weights) float64 {
	friends := person.Friends()
	enemies := person.Enemies()
	if len(friends) == 0 && len(enemies) == 0 {
		return 0
	}

	pidShifts := a.Person(person.ID)
	pidShiftSet := make(map[domain.ShiftID]struct{}, len(pidShifts))
	startTimes := make(map[int64]struct{}, len(pidShifts))
	for _, sid := range pidShifts {
		pidShiftSet[sid] = struct{}{}
		if s, ok := model.Shifts[sid]; ok {
			startTimes[s.Window.Start.Unix()] = struct{}{}
		}
	}

	friendsCount := 0.0
	enemiesCount := 0.0

	for _, sid := range pidShifts {
		for q := range a.Shift(sid) {
			if q == person.ID {
				continue
			}
			if _, ok := friends[q]; ok {
				friendsCount++
			}
			if _, ok := enemies[q]; ok {
				enemiesCount++
			}
		}
	}

	for q := range friends {
		for _, sid2 := range a.Person(q) {
			if _, already := pidShiftSet[sid2]; already {
				continue
			}
			s, ok := model.Shifts[sid2]
			if !ok {
				continue
			}
			if _, same := startTimes[s.Window.Start.Unix()]; same {
				friendsCount++
			}
		}
	}
	for q := range enemies {
		for _, sid2 := range a.Person(q) {
			if _, already := pidShiftSet[sid2]; already {
				continue
			}
			s, ok := model.Shifts[sid2]
			if !ok {
				continue
			}
			if _, same := startTimes[s.Window.Start.Unix()]; same {
				enemiesCount++
			}
		}
	}

	deficit := float64(len(friends)*len(pidShifts)) - friendsCount
	if deficit < 0 {
		deficit = 0
	}
	return deficit*w.FriendFactor + enemiesCount*w.EnemyFactor
}

// offDayCost adds OffDayFactor once per assigned shift that overlaps a
// day-off interval of person.
func offDayCost(a *domain.Assignment, model *domain.Model, person *domain.Person, w Weights) float64 {
	if len(person.DayOff) == 0 {
		return 0
	}
	total := 0.0
	for _, sid := range a.Person(person.ID) {
		shift, ok := model.Shifts[sid]
		if !ok {
			continue
		}
		for _, off := range person.DayOff {
			if shift.Window.Overlaps(off) {
				total += w.OffDayFactor
				break
			}
		}
	}
	return total
}

// rankingCost implements spec.md §4.2's time-frame cost: for each
// assigned shift, (base_cost + preference_cost^2)*RankingFactor, plus a
// night-shift surcharge when more than one night shift is assigned, plus
// a consecutive-shift surcharge (supplemented from shift_ranking_cost's
// CONSECUTIVE_SHIFT_FACTOR) based on ingestion-order adjacency.
func rankingCost(a *domain.Assignment, model *domain.Model, person *domain.Person, w Weights) float64 {
	shiftIDs := a.Person(person.ID)
	if len(shiftIDs) == 0 {
		return 0
	}

	total := 0.0
	nightCount := 0
	shiftIndex := make(map[domain.ShiftID]int, len(model.ShiftOrder))
	for i, sid := range model.ShiftOrder {
		shiftIndex[sid] = i
	}
	positions := make([]int, 0, len(shiftIDs))

	for _, sid := range shiftIDs {
		shift, ok := model.Shifts[sid]
		if !ok {
			continue
		}
		prefCost := matchShiftPreference(person, shift)
		total += (float64(shift.BaseCost) + prefCost*prefCost) * w.RankingFactor
		if domain.IsNightShift(shift.Window) {
			nightCount++
		}
		positions = append(positions, shiftIndex[sid])
	}

	if nightCount > 1 {
		total += (float64(len(shiftIDs)) / float64(nightCount)) * w.NightShiftFactor
	}

	if w.ConsecutiveShiftFactor != 0 {
		total += consecutiveRunCost(positions) * w.ConsecutiveShiftFactor
	}

	return total
}

// matchShiftPreference returns the configured cost for the first of
// person's ShiftPreferences windows that contains the shift's start
// time, or 0 if none match.
func matchShiftPreference(person *domain.Person, shift *domain.Shift) float64 {
	startSec := domain.SecondOfDay(shift.Window.Start)
	for _, pref := range person.ShiftPreferences {
		if pref.Window.Contains(startSec) {
			return float64(pref.Cost)
		}
	}
	return 0
}

// consecutiveRunCost counts, for each maximal run of ingestion-order-
// adjacent shift positions, a penalty proportional to run length beyond
// the first two shifts in the run — the deterministic analogue of
// shift_ranking_cost's conc_shifts counter (the original's random
// "shift_diff tolerance" jitter is dropped so Evaluate stays pure).
func consecutiveRunCost(positions []int) float64 {
	if len(positions) < 2 {
		return 0
	}
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)

	cost := 0.0
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1]+1 {
			run++
			if run > 2 {
				cost += float64(run)
			}
		} else {
			run = 1
		}
	}
	return cost
}

// shiftTypeCost implements spec.md §4.2's per-type capacity penalty.
func shiftTypeCost(a *domain.Assignment, model *domain.Model, person *domain.Person, w Weights) float64 {
	if person.IsJoker() {
		return 0
	}
	counts := make(map[int]int, len(person.AllowedTypes))
	for _, sid := range a.Person(person.ID) {
		if s, ok := model.Shifts[sid]; ok {
			counts[s.ShiftType]++
		}
	}

	total := 0.0
	for shiftType, limit := range person.AllowedTypes {
		count := counts[shiftType]
		if limit.Min == 0 && limit.Max == 0 {
			if count == 0 {
				total += 2 * w.ShiftTypeFactor
			}
			continue
		}
		if count < limit.Min {
			total += w.ShiftTypeFactor
		}
		if limit.Max > 0 && count > limit.Max {
			total += w.ShiftTypeFactor
		}
	}
	return total
}

// categoryCost implements the supplemented shift-category cost
// (shift_category_com_cost): an exponential penalty in the number of
// shifts whose category differs from the person's preferred one.
func categoryCost(a *domain.Assignment, model *domain.Model, person *domain.Person, w Weights) float64 {
	if w.CategoryFactor == 0 || person.PreferredCategory == nil {
		return 0
	}
	mismatches := 0
	for _, sid := range a.Person(person.ID) {
		shift, ok := model.Shifts[sid]
		if !ok || shift.Category <= 0 {
			continue
		}
		if shift.Category != *person.PreferredCategory {
			mismatches++
		}
	}
	if mismatches == 0 {
		return 0
	}
	return w.CategoryFactor * float64(int(1)<<(mismatches-1))
}

// priorityCost implements spec.md §4.2's global shift-priority cost:
// shift.priority^2 for every under-filled shift.
func priorityCost(a *domain.Assignment, model *domain.Model) float64 {
	total := 0.0
	for _, sid := range model.ShiftOrder {
		shift := model.Shifts[sid]
		if a.ShiftCount(sid) < shift.MinCap {
			total += float64(shift.Priority) * float64(shift.Priority)
		}
	}
	return total
}

// genderCost implements spec.md §4.2's global gender-distribution cost:
// GenderFactor * stddev of per-shift mean gender. Shifts with no
// assigned people, and models with no gender data at all, are skipped.
func genderCost(a *domain.Assignment, model *domain.Model, w Weights) float64 {
	if w.GenderFactor == 0 || !anyGenderData(model) {
		return 0
	}
	means := perShiftMean(a, model, func(p *domain.Person) (float64, bool) {
		if p.Gender == nil {
			return 0, false
		}
		return float64(*p.Gender), true
	})
	if len(means) < 2 {
		return 0
	}
	return stat.StdDev(means, nil) * w.GenderFactor
}

// experienceCost implements the supplemented experience-mix cost
// (mixedExperience_cost): ExperienceFactor * sum over shifts of
// |shift_mean_experience - population_mean_experience|.
func experienceCost(a *domain.Assignment, model *domain.Model, w Weights) float64 {
	if w.ExperienceFactor == 0 || !anyExperienceData(model) {
		return 0
	}
	population := make([]float64, 0, len(model.People))
	for _, pid := range model.PeopleOrder {
		if e := model.People[pid].Experience; e != nil {
			population = append(population, float64(*e))
		}
	}
	if len(population) == 0 {
		return 0
	}
	popMean := stat.Mean(population, nil)

	means := perShiftMean(a, model, func(p *domain.Person) (float64, bool) {
		if p.Experience == nil {
			return 0, false
		}
		return float64(*p.Experience), true
	})

	total := 0.0
	for _, m := range means {
		diff := m - popMean
		if diff < 0 {
			diff = -diff
		}
		total += diff
	}
	return total * w.ExperienceFactor
}

// balanceCost implements spec.md §4.2's individual-balance cost:
// stddev(per-person totals)^BalanceExponent. A zero BalanceExponent is
// treated as 1.
func balanceCost(totals []float64, w Weights) float64 {
	if len(totals) < 2 {
		return 0
	}
	sd := stat.StdDev(totals, nil)
	exp := w.BalanceExponent
	if exp == 0 {
		exp = 1
	}
	return math.Pow(sd, exp)
}

func anyGenderData(model *domain.Model) bool {
	for _, pid := range model.PeopleOrder {
		if model.People[pid].Gender != nil {
			return true
		}
	}
	return false
}

func anyExperienceData(model *domain.Model) bool {
	for _, pid := range model.PeopleOrder {
		if model.People[pid].Experience != nil {
			return true
		}
	}
	return false
}

// perShiftMean computes, for every shift with at least one assigned
// person who has the requested attribute, the mean of that attribute
// across its members.
func perShiftMean(a *domain.Assignment, model *domain.Model, attr func(*domain.Person) (float64, bool)) []float64 {
	means := make([]float64, 0, len(model.ShiftOrder))
	for _, sid := range model.ShiftOrder {
		members := a.Shift(sid)
		if len(members) == 0 {
			continue
		}
		sum := 0.0
		count := 0
		for pid := range members {
			person, ok := model.People[pid]
			if !ok {
				continue
			}
			if v, has := attr(person); has {
				sum += v
				count++
			}
		}
		if count == 0 {
			continue
		}
		means = append(means, sum/float64(count))
	}
	return means
}
