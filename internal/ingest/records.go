// Package ingest converts the wire records named in spec.md §6 (people
// and shift records, however they arrive — JSON body or CSV upload)
// into an internal/domain.Model. It is the "spreadsheet/database
// ingestion" collaborator spec.md §1 treats as external, now given a
// real implementation: column-mapped encoding/csv parsing grounded on
// the teacher's pkg/handlers.ScheduleCSV, generalized from its
// Volunteer/Shift pair to the richer Person/Shift records spec.md §6
// actually calls for.
package ingest

import "time"

// PersonRecord is one ingested person row, matching spec.md §6's
// people record shape field-for-field.
type PersonRecord struct {
	ID        string `json:"id"`
	Label     string `json:"label,omitempty"`
	MinShifts int    `json:"min_shifts"`
	MaxShifts int    `json:"max_shifts"`

	Gender     *int `json:"gender,omitempty"`
	Experience *int `json:"experience,omitempty"`

	// ShiftTypes maps a shift-type id (string key so it round-trips
	// through JSON object notation) to that type's limit. An empty map
	// marks a joker (spec.md §3).
	ShiftTypes map[string]ShiftTypeRecord `json:"shift_types_map,omitempty"`

	// MinRestSeconds is the minimum inter-shift rest duration.
	MinRestSeconds int64 `json:"min_rest_seconds"`

	Unavailability []IntervalRecord `json:"unavailability_intervals,omitempty"`
	Mandatory      []IntervalRecord `json:"mandatory_intervals,omitempty"`
	DayOff         []IntervalRecord `json:"day_off_intervals,omitempty"`

	Preferences      []PreferenceRecord      `json:"preferences,omitempty"`
	ShiftPreferences []ShiftPreferenceRecord `json:"shift_preferences,omitempty"`

	// PreferredCategory is the supplemented shift-category preference
	// (SPEC_FULL.md §8); nil disables the category cost for this person.
	PreferredCategory *int `json:"preferred_category,omitempty"`
}

// ShiftTypeRecord is a person's capacity for one shift type:
// (experience, min_required, max_allowed).
type ShiftTypeRecord struct {
	Experience  int `json:"experience,omitempty"`
	MinRequired int `json:"min_req"`
	MaxAllowed  int `json:"max_allowed"`
}

// PreferenceRecord pairs another person with +1 (enemy) or -1 (friend).
type PreferenceRecord struct {
	OtherID string `json:"other_id"`
	Sign    int    `json:"sign"`
}

// ShiftPreferenceRecord pairs a time-of-day window with the cost
// incurred when an assigned shift starts inside it.
type ShiftPreferenceRecord struct {
	Window IntervalRecord `json:"time_range_of_day"`
	Cost   int            `json:"cost"`
}

// IntervalRecord is a wire-format time interval. An absolute window
// uses Start/End; a time-of-day window inside ShiftPreferenceRecord
// uses StartSec/EndSec (seconds-since-midnight, both required). Or
// RRule is set together with DurationSeconds, in which case the
// interval is expanded into one window per RRULE occurrence across the
// ingestion horizon (see rrule.go). An unspecified Start or End bound
// defaults to the ingestion horizon (earliest shift start minus one
// day, latest shift end plus one day), not to the epoch or an
// unbounded future.
type IntervalRecord struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`

	StartSec *int `json:"start_sec,omitempty"`
	EndSec   *int `json:"end_sec,omitempty"`

	RRule           string `json:"rrule,omitempty"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
}

// ShiftRecord is one ingested shift row, matching spec.md §6's shift
// record shape field-for-field.
type ShiftRecord struct {
	ID string `json:"id"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	MinCap int `json:"min_cap"`
	MaxCap int `json:"max_cap"`

	ShiftType int  `json:"shift_type_id"`
	Restrict  bool `json:"restrict_shift_type"`
	Priority  int  `json:"priority"`
	BaseCost  int  `json:"base_cost"`

	// Category is the supplemented shift-category classification
	// (SPEC_FULL.md §8); 0 means uncategorized.
	Category int `json:"category,omitempty"`
}

// Input bundles the two ingested record sets spec.md §6 names.
type Input struct {
	People []PersonRecord `json:"people"`
	Shifts []ShiftRecord  `json:"shifts"`
}
