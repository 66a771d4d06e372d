// Package stats derives aggregate statistics from the raw observation log.
// Everything here is a pure function of its inputs: the full list is
// recomputed on every mutation and the result is only ever a cache of
// Compute over the stored list.
package stats

import (
	"sort"
	"time"

	"github.com/lox/meteorlog/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Compute builds the full aggregate for a list of observations. asOf is the
// evaluation instant used for streak lapse detection; callers outside tests
// pass time.Now().
//
// Tie-breaks for favourite shower and best session follow first appearance
// in the input list, so the result is deterministic only for a fixed input
// order. The store returns observations in stable first-recorded order,
// which makes the aggregate reproducible end to end.
func Compute(observations []models.Observation, asOf time.Time) models.Stats {
	if len(observations) == 0 {
		return Zero()
	}

	s := models.Stats{
		TotalObservations: len(observations),
		MonthlyStats:      make(map[string]int),
		ShowerStats:       make(map[string]models.ShowerStats),
	}

	type showerAgg struct {
		count      int
		meteors    int
		ratingSum  int
		best       models.BestSession
		firstIndex int
	}
	showers := make(map[string]*showerAgg)
	var showerOrder []string

	var ratingSum int
	for i, obs := range observations {
		s.TotalMeteors += obs.Sightings.MeteorsCount
		ratingSum += obs.Rating

		hours := SessionHours(obs.StartTime, obs.EndTime)
		s.TotalHours += hours
		if hours > s.LongestSession {
			s.LongestSession = hours
		}

		if label, ok := monthLabel(obs.Date); ok {
			s.MonthlyStats[label]++
		}

		agg, ok := showers[obs.ShowerID]
		if !ok {
			agg = &showerAgg{firstIndex: i}
			showers[obs.ShowerID] = agg
			showerOrder = append(showerOrder, obs.ShowerID)
		}
		agg.count++
		agg.meteors += obs.Sightings.MeteorsCount
		agg.ratingSum += obs.Rating

		// Best session: highest meteor count wins, ties by rating,
		// remaining ties keep the earlier session.
		candidate := models.BestSession{
			Date:    obs.Date,
			Meteors: obs.Sightings.MeteorsCount,
			Rating:  obs.Rating,
		}
		if agg.count == 1 || betterSession(candidate, agg.best) {
			agg.best = candidate
		}
	}

	s.AverageRating = float64(ratingSum) / float64(len(observations))

	for _, id := range showerOrder {
		agg := showers[id]
		s.ShowerStats[id] = models.ShowerStats{
			Observations:  agg.count,
			TotalMeteors:  agg.meteors,
			AverageRating: float64(agg.ratingSum) / float64(agg.count),
			BestSession:   agg.best,
		}
		if s.FavoriteShower == "" || agg.count > showers[s.FavoriteShower].count {
			s.FavoriteShower = id
		}
	}

	sorted := sortedByDate(observations)
	s.CurrentStreak, s.LongestStreak = Streaks(sorted, asOf)

	return s
}

// Zero is the canonical empty aggregate.
func Zero() models.Stats {
	return models.Stats{
		MonthlyStats: make(map[string]int),
		ShowerStats:  make(map[string]models.ShowerStats),
	}
}

// SessionHours computes a session's duration in hours from its HH:MM start
// and end times. An end time earlier than the start means the session
// crossed midnight, so a 24 hour rollover is added. Malformed times yield 0.
func SessionHours(startTime, endTime string) float64 {
	start, err := time.Parse(timeLayout, startTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse(timeLayout, endTime)
	if err != nil {
		return 0
	}
	hours := end.Sub(start).Hours()
	if hours < 0 {
		hours += 24
	}
	return hours
}

func betterSession(a, b models.BestSession) bool {
	if a.Meteors != b.Meteors {
		return a.Meteors > b.Meteors
	}
	return a.Rating > b.Rating
}

func monthLabel(date string) (string, bool) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", false
	}
	return d.Format("January 2006"), true
}

// sortedByDate returns a copy of the observations in ascending date order,
// the precondition the streak walk requires. The sort is stable so
// same-date sessions keep their input order.
func sortedByDate(observations []models.Observation) []models.Observation {
	out := make([]models.Observation, len(observations))
	copy(out, observations)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
