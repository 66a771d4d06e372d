package stats

import (
	"time"

	"github.com/lox/meteorlog/internal/models"
)

// maxStreakGapDays is the largest gap between consecutive sessions that
// still counts as one streak, inclusive.
const maxStreakGapDays = 7

// Streaks walks observations sorted ascending by date and returns the
// current and longest streaks. A streak is a maximal run where consecutive
// sessions are at most 7 days apart. The current streak is the trailing
// run, or 0 if more than 7 days have passed between the last session and
// asOf.
//
// The input must already be date-sorted; feeding unsorted data is a
// contract violation, not a handled case.
func Streaks(sorted []models.Observation, asOf time.Time) (current, longest int) {
	if len(sorted) == 0 {
		return 0, 0
	}

	run := 1
	prev, prevOK := parseDay(sorted[0].Date)
	for _, obs := range sorted[1:] {
		day, ok := parseDay(obs.Date)
		if !ok {
			continue
		}
		if prevOK && daysBetween(prev, day) <= maxStreakGapDays {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
		prev, prevOK = day, ok
	}
	if run > longest {
		longest = run
	}

	if prevOK && daysBetween(prev, dayOf(asOf)) <= maxStreakGapDays {
		current = run
	}
	return current, longest
}

// parseDay parses a YYYY-MM-DD date into a midnight UTC instant.
func parseDay(date string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns whole calendar days from a to b (both at midnight).
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
