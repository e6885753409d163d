package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestModelFromRecordsBuildsDomainModel(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	input := Input{
		People: []PersonRecord{
			{ID: "alice", MinShifts: 1, MaxShifts: 2, MinRestSeconds: 3600},
			{ID: "bob", MinShifts: 1, MaxShifts: 2, MinRestSeconds: 3600,
				Preferences: []PreferenceRecord{{OtherID: "alice", Sign: -1}}},
		},
		Shifts: []ShiftRecord{
			{ID: "s1", Start: start, End: start.Add(8 * time.Hour), MinCap: 1, MaxCap: 2},
			{ID: "s2", Start: start.Add(24 * time.Hour), End: start.Add(32 * time.Hour), MinCap: 1, MaxCap: 2},
		},
	}

	model, ids, err := ModelFromRecords(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(model.People) != 2 || len(model.Shifts) != 2 {
		t.Fatalf("expected 2 people and 2 shifts, got %d/%d", len(model.People), len(model.Shifts))
	}
	if ids.Person[1] != "alice" || ids.Person[2] != "bob" {
		t.Fatalf("unexpected id map: %+v", ids.Person)
	}

	bob := model.People[2]
	if sign, ok := bob.Preferences[1]; !ok || sign != -1 {
		t.Fatalf("expected bob to list alice as a friend, got %+v", bob.Preferences)
	}
}

func TestModelFromRecordsRejectsUnknownPreferenceTarget(t *testing.T) {
	input := Input{
		People: []PersonRecord{
			{ID: "alice", MinShifts: 1, MaxShifts: 1,
				Preferences: []PreferenceRecord{{OtherID: "ghost", Sign: 1}}},
		},
		Shifts: []ShiftRecord{{ID: "s1", MinCap: 1, MaxCap: 1}},
	}
	if _, _, err := ModelFromRecords(input); err == nil {
		t.Fatal("expected an error for a preference referencing an unknown person")
	}
}

func TestFromCSVParsesShiftTypesAndPreferences(t *testing.T) {
	peopleCSV := strings.NewReader(
		"id,label,min_shifts,max_shifts,min_rest_seconds,shift_types,preferences\n" +
			"alice,Alice,1,2,3600,1:1:2:0,\n" +
			"bob,Bob,1,2,3600,,alice:-1\n",
	)
	shiftsCSV := strings.NewReader(
		"id,start,end,min_cap,max_cap,shift_type_id,restrict_shift_type,priority,base_cost\n" +
			"s1,2026-01-05T08:00:00Z,2026-01-05T16:00:00Z,1,2,1,true,2,5\n",
	)

	model, ids, err := FromCSV(peopleCSV, shiftsCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(model.People) != 2 || len(model.Shifts) != 1 {
		t.Fatalf("expected 2 people and 1 shift, got %d/%d", len(model.People), len(model.Shifts))
	}
	alice := model.People[1]
	limit, ok := alice.AllowedTypes[1]
	if !ok || limit.Min != 1 || limit.Max != 2 {
		t.Fatalf("expected alice's type-1 limit to be (1,2), got %+v", limit)
	}
	if ids.Shift[1] != "s1" {
		t.Fatalf("expected shift id map to preserve wire id, got %+v", ids.Shift)
	}
	shift := model.Shifts[1]
	if !shift.Restrict || shift.Priority != 2 || shift.BaseCost != 5 {
		t.Fatalf("unexpected shift fields: %+v", shift)
	}
}

func TestExpandIntervalsHandlesRRule(t *testing.T) {
	horizonStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	horizonEnd := time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC)
	records := []IntervalRecord{{
		RRule:           "FREQ=WEEKLY;BYDAY=MO",
		DurationSeconds: int64(24 * time.Hour / time.Second),
	}}

	windows, err := expandIntervals(records, horizonStart, horizonEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) == 0 {
		t.Fatal("expected at least one expanded Monday window")
	}
	for _, w := range windows {
		if w.Start.Weekday() != time.Monday {
			t.Fatalf("expected every expanded window to start on a Monday, got %v", w.Start.Weekday())
		}
	}
}
