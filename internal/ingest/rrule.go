package ingest

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/shiftsolve/shiftsolve/internal/domain"
)

// expandIntervals turns a list of IntervalRecord into absolute
// TimeWindows. A record with an explicit Start/End is used as-is
// (falling back to the ingestion horizon per spec.md §6 when one bound
// is omitted); a record with an RRule is expanded into one window of
// DurationSeconds per occurrence inside [horizonStart, horizonEnd],
// grounded on allocateRota.go's convertRotaOverrides use of
// rrule-go's StrToRRule/Between for recurring rota overrides.
func expandIntervals(records []IntervalRecord, horizonStart, horizonEnd time.Time) ([]domain.TimeWindow, error) {
	var out []domain.TimeWindow
	for _, rec := range records {
		if rec.RRule != "" {
			windows, err := expandRRule(rec, horizonStart, horizonEnd)
			if err != nil {
				return nil, err
			}
			out = append(out, windows...)
			continue
		}

		start, end := horizonStart, horizonEnd
		if rec.Start != nil {
			start = *rec.Start
		}
		if rec.End != nil {
			end = *rec.End
		}
		out = append(out, domain.TimeWindow{Start: start, End: end})
	}
	return out, nil
}

func expandRRule(rec IntervalRecord, horizonStart, horizonEnd time.Time) ([]domain.TimeWindow, error) {
	if rec.DurationSeconds <= 0 {
		return nil, fmt.Errorf("rrule interval %q requires a positive duration_seconds", rec.RRule)
	}

	rule, err := rrule.StrToRRule(rec.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", rec.RRule, err)
	}
	rule.DTStart(horizonStart)

	occurrences := rule.Between(horizonStart, horizonEnd, true)
	duration := time.Duration(rec.DurationSeconds) * time.Second

	windows := make([]domain.TimeWindow, 0, len(occurrences))
	for _, start := range occurrences {
		windows = append(windows, domain.TimeWindow{Start: start, End: start.Add(duration)})
	}
	return windows, nil
}
