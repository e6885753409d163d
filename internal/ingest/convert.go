package ingest

import (
	"fmt"
	"time"

	"github.com/shiftsolve/shiftsolve/internal/domain"
	"github.com/shiftsolve/shiftsolve/internal/solverr"
)

// IDMap remembers the wire-format string ids assigned to each
// generated domain.PersonID/domain.ShiftID, so a caller that only has
// domain ids in hand (a solved Assignment) can translate a result back
// to the ids the outside world sent in.
type IDMap struct {
	Person map[domain.PersonID]string
	Shift  map[domain.ShiftID]string
}

// ModelFromRecords builds a domain.Model from ingested records,
// assigning stable numeric ids in input order (model.PeopleOrder /
// model.ShiftOrder preserve it, per domain.Model's doc comment) and
// returning the id translation table alongside. Absolute shift windows
// are expected in UTC; day-off intervals are merged into Unavailability
// here, per spec.md §6's "ingestion may enrich an unavailability list
// with a day-off interval".
func ModelFromRecords(input Input) (*domain.Model, IDMap, error) {
	model := domain.NewModel()
	ids := IDMap{Person: make(map[domain.PersonID]string), Shift: make(map[domain.ShiftID]string)}
	personByWireID := make(map[string]domain.PersonID, len(input.People))

	for i, rec := range input.People {
		pid := domain.PersonID(i + 1)
		personByWireID[rec.ID] = pid
		ids.Person[pid] = rec.ID
	}

	for i, rec := range input.Shifts {
		sid := domain.ShiftID(i + 1)
		ids.Shift[sid] = rec.ID

		window := domain.TimeWindow{Start: rec.Start, End: rec.End}
		model.AddShift(&domain.Shift{
			ID:        sid,
			Window:    window,
			MinCap:    rec.MinCap,
			MaxCap:    rec.MaxCap,
			ShiftType: rec.ShiftType,
			Restrict:  rec.Restrict,
			Priority:  rec.Priority,
			BaseCost:  rec.BaseCost,
			Category:  rec.Category,
		})
	}

	horizonStart, horizonEnd := horizon(input.Shifts)

	for i, rec := range input.People {
		pid := domain.PersonID(i + 1)

		person := &domain.Person{
			ID:                pid,
			Label:             rec.Label,
			MinShifts:         rec.MinShifts,
			MaxShifts:         rec.MaxShifts,
			MinRest:           time.Duration(rec.MinRestSeconds) * time.Second,
			Gender:            rec.Gender,
			Experience:        rec.Experience,
			PreferredCategory: rec.PreferredCategory,
			AllowedTypes:      make(map[int]domain.ShiftTypeLimit, len(rec.ShiftTypes)),
			Preferences:       make(map[domain.PersonID]domain.PreferenceSign, len(rec.Preferences)),
		}

		for typeKey, limit := range rec.ShiftTypes {
			typeID, err := parseShiftType(typeKey)
			if err != nil {
				return nil, IDMap{}, solverr.NewNotFoundError("person %s: %v", rec.ID, err)
			}
			person.AllowedTypes[typeID] = domain.ShiftTypeLimit{
				Experience: limit.Experience,
				Min:        limit.MinRequired,
				Max:        limit.MaxAllowed,
			}
		}

		for _, pref := range rec.Preferences {
			otherID, ok := personByWireID[pref.OtherID]
			if !ok {
				return nil, IDMap{}, solverr.NewNotFoundError("person %s references unknown person %s in preferences", rec.ID, pref.OtherID)
			}
			person.Preferences[otherID] = domain.PreferenceSign(pref.Sign)
		}

		unavailable, err := expandIntervals(rec.Unavailability, horizonStart, horizonEnd)
		if err != nil {
			return nil, IDMap{}, fmt.Errorf("person %s unavailability: %w", rec.ID, err)
		}
		mandatory, err := expandIntervals(rec.Mandatory, horizonStart, horizonEnd)
		if err != nil {
			return nil, IDMap{}, fmt.Errorf("person %s mandatory intervals: %w", rec.ID, err)
		}
		dayOff, err := expandIntervals(rec.DayOff, horizonStart, horizonEnd)
		if err != nil {
			return nil, IDMap{}, fmt.Errorf("person %s day-off intervals: %w", rec.ID, err)
		}
		person.Mandatory = mandatory
		person.DayOff = dayOff
		// Day-off intervals are unavailability too (spec.md §6).
		person.Unavailability = append(unavailable, dayOff...)

		for _, pref := range rec.ShiftPreferences {
			window, err := dayTimeWindow(pref.Window)
			if err != nil {
				return nil, IDMap{}, fmt.Errorf("person %s shift preference: %w", rec.ID, err)
			}
			person.ShiftPreferences = append(person.ShiftPreferences, domain.DayTimeWindowCost{
				Window: window,
				Cost:   pref.Cost,
			})
		}

		model.AddPerson(person)
	}

	return model, ids, nil
}

// horizon returns the earliest shift start and latest shift end, used
// as the default RRULE expansion window and as spec.md §6's "far
// future" default for unbounded intervals.
func horizon(shifts []ShiftRecord) (time.Time, time.Time) {
	if len(shifts) == 0 {
		epoch := time.Unix(0, 0).UTC()
		return epoch, epoch.AddDate(100, 0, 0)
	}
	start, end := shifts[0].Start, shifts[0].End
	for _, s := range shifts[1:] {
		if s.Start.Before(start) {
			start = s.Start
		}
		if s.End.After(end) {
			end = s.End
		}
	}
	return start.AddDate(0, 0, -1), end.AddDate(0, 0, 1)
}

func dayTimeWindow(rec IntervalRecord) (domain.DayTimeWindow, error) {
	if rec.StartSec == nil || rec.EndSec == nil {
		return domain.DayTimeWindow{}, fmt.Errorf("time-of-day window requires start_sec and end_sec")
	}
	return domain.DayTimeWindow{StartSec: *rec.StartSec, EndSec: *rec.EndSec}, nil
}

func parseShiftType(key string) (int, error) {
	var typeID int
	if _, err := fmt.Sscanf(key, "%d", &typeID); err != nil {
		return 0, fmt.Errorf("shift type key %q is not numeric: %w", key, err)
	}
	return typeID, nil
}
