package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shiftsolve/shiftsolve/internal/domain"
)

// csvTimeLayouts mirrors the teacher's ScheduleCSV, which tries an
// RFC3339-with-seconds layout first and falls back to a bare
// "YYYY-MM-DDTHH:MM" layout for hand-edited spreadsheets.
var csvTimeLayouts = []string{"2006-01-02T15:04:05Z", time.RFC3339, "2006-01-02T15:04"}

// FromCSV parses a people file and a shifts file into a domain.Model,
// generalizing the teacher's pkg/handlers.ScheduleCSV column-mapped
// encoding/csv parsing (pipe-separated sub-fields, colon-separated
// key:value pairs) from its Volunteer/Shift pair to the richer
// Person/Shift record shape.
func FromCSV(people, shifts io.Reader) (*domain.Model, IDMap, error) {
	peopleRecords, err := parsePeopleCSV(people)
	if err != nil {
		return nil, IDMap{}, fmt.Errorf("parse people csv: %w", err)
	}
	shiftRecords, err := parseShiftsCSV(shifts)
	if err != nil {
		return nil, IDMap{}, fmt.Errorf("parse shifts csv: %w", err)
	}
	return ModelFromRecords(Input{People: peopleRecords, Shifts: shiftRecords})
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	return cols
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func parsePeopleCSV(r io.Reader) ([]PersonRecord, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)

	var out []PersonRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		minShifts, _ := strconv.Atoi(field(row, cols, "min_shifts"))
		maxShifts, _ := strconv.Atoi(field(row, cols, "max_shifts"))
		minRest, _ := strconv.ParseInt(field(row, cols, "min_rest_seconds"), 10, 64)

		rec := PersonRecord{
			ID:             field(row, cols, "id"),
			Label:          field(row, cols, "label"),
			MinShifts:      minShifts,
			MaxShifts:      maxShifts,
			MinRestSeconds: minRest,
			ShiftTypes:     parseShiftTypes(field(row, cols, "shift_types")),
			Preferences:    parsePreferences(field(row, cols, "preferences")),
		}
		if gender := field(row, cols, "gender"); gender != "" {
			if v, err := strconv.Atoi(gender); err == nil {
				rec.Gender = &v
			}
		}
		if experience := field(row, cols, "experience"); experience != "" {
			if v, err := strconv.Atoi(experience); err == nil {
				rec.Experience = &v
			}
		}
		if category := field(row, cols, "preferred_category"); category != "" {
			if v, err := strconv.Atoi(category); err == nil {
				rec.PreferredCategory = &v
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// parseShiftTypes parses "typeID:min_req:max_allowed:experience|..."
// into the wire ShiftTypeRecord map, mirroring ScheduleCSV's
// "group:count|group2:count2" RequiredGroups parsing.
func parseShiftTypes(raw string) map[string]ShiftTypeRecord {
	if raw == "" {
		return nil
	}
	out := make(map[string]ShiftTypeRecord)
	for _, part := range strings.Split(raw, "|") {
		fields := strings.Split(part, ":")
		if len(fields) < 3 {
			continue
		}
		minReq, _ := strconv.Atoi(strings.TrimSpace(fields[1]))
		maxAllowed, _ := strconv.Atoi(strings.TrimSpace(fields[2]))
		experience := 0
		if len(fields) > 3 {
			experience, _ = strconv.Atoi(strings.TrimSpace(fields[3]))
		}
		out[strings.TrimSpace(fields[0])] = ShiftTypeRecord{
			Experience:  experience,
			MinRequired: minReq,
			MaxAllowed:  maxAllowed,
		}
	}
	return out
}

// parsePreferences parses "otherID:sign|otherID2:sign2".
func parsePreferences(raw string) []PreferenceRecord {
	if raw == "" {
		return nil
	}
	var out []PreferenceRecord
	for _, part := range strings.Split(raw, "|") {
		fields := strings.Split(part, ":")
		if len(fields) != 2 {
			continue
		}
		sign, _ := strconv.Atoi(strings.TrimSpace(fields[1]))
		out = append(out, PreferenceRecord{OtherID: strings.TrimSpace(fields[0]), Sign: sign})
	}
	return out
}

func parseShiftsCSV(r io.Reader) ([]ShiftRecord, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)

	var out []ShiftRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start := parseCSVTime(field(row, cols, "start"))
		end := parseCSVTime(field(row, cols, "end"))
		minCap, _ := strconv.Atoi(field(row, cols, "min_cap"))
		maxCap, _ := strconv.Atoi(field(row, cols, "max_cap"))
		shiftType, _ := strconv.Atoi(field(row, cols, "shift_type_id"))
		priority, _ := strconv.Atoi(field(row, cols, "priority"))
		baseCost, _ := strconv.Atoi(field(row, cols, "base_cost"))
		category, _ := strconv.Atoi(field(row, cols, "category"))
		restrict := strings.EqualFold(strings.TrimSpace(field(row, cols, "restrict_shift_type")), "true")

		out = append(out, ShiftRecord{
			ID:        field(row, cols, "id"),
			Start:     start,
			End:       end,
			MinCap:    minCap,
			MaxCap:    maxCap,
			ShiftType: shiftType,
			Restrict:  restrict,
			Priority:  priority,
			BaseCost:  baseCost,
			Category:  category,
		})
	}
	return out, nil
}

func parseCSVTime(raw string) time.Time {
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
