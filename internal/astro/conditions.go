package astro

import (
	"strings"
	"time"

	"github.com/lox/meteorlog/internal/catalog"
	"github.com/lox/meteorlog/internal/models"
)

// Light-pollution impact categories derived from latitude.
const (
	PollutionLow    = "low"
	PollutionMedium = "medium"
	PollutionHigh   = "high"
)

// Maximum score reduction from moonlight, per shower sensitivity, scaled by
// illumination fraction.
var moonPenalty = map[string]float64{
	catalog.SensitivityHigh:   0.8,
	catalog.SensitivityMedium: 0.5,
	catalog.SensitivityLow:    0.2,
}

// Score multipliers per light-pollution impact category.
var pollutionMultiplier = map[string]float64{
	PollutionLow:    1.0,
	PollutionMedium: 0.8,
	PollutionHigh:   0.6,
}

// IsVisible reports hemisphere compatibility between a shower and an
// observer. Seasonal activity is a separate catalog filter.
func IsVisible(s catalog.Shower, loc models.Location) bool {
	switch s.Hemisphere {
	case catalog.HemisphereNorthern:
		return loc.Latitude >= 0
	case catalog.HemisphereSouthern:
		return loc.Latitude < 0
	default:
		return true
	}
}

// PollutionImpact estimates light-pollution impact from absolute latitude.
// High latitudes tend to be sparsely populated, low latitudes dense: above
// 60 degrees impact is low, below 30 high, medium between.
func PollutionImpact(latitude float64) string {
	abs := latitude
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > 60:
		return PollutionLow
	case abs < 30:
		return PollutionHigh
	default:
		return PollutionMedium
	}
}

// ViewingConditions scores how good viewing will be for a shower at a
// location on a date. The score starts at 1.0, is reduced by moonlight in
// proportion to the shower's moon sensitivity, then multiplied by a
// light-pollution factor. The multiplier constants are fixed; historical
// results depend on them exactly.
func ViewingConditions(s catalog.Shower, loc models.Location, date time.Time) models.ViewingConditions {
	phase := MoonPhase(date)
	illumination := MoonIllumination(date)

	score := 1.0
	penalty, ok := moonPenalty[s.MoonSensitivity]
	if !ok {
		penalty = moonPenalty[catalog.SensitivityMedium]
	}
	score *= 1 - penalty*(float64(illumination)/100)

	impact := PollutionImpact(loc.Latitude)
	score *= pollutionMultiplier[impact]

	if score < 0 {
		score = 0
	}

	start, end := ViewingWindow(s.BestViewing)

	return models.ViewingConditions{
		Visibility:       score,
		MoonPhase:        phase,
		MoonIllumination: illumination,
		WindowStart:      start,
		WindowEnd:        end,
		LightPollution:   impact,
	}
}

// ViewingWindow maps a shower's free-text best-viewing description to a
// clock window via keyword match. Intentionally coarse; unknown text falls
// back to 22:00-06:00.
func ViewingWindow(bestViewing string) (start, end string) {
	lower := strings.ToLower(bestViewing)
	switch {
	case strings.Contains(lower, "midnight"):
		return "00:00", "04:00"
	case strings.Contains(lower, "evening"):
		return "20:00", "00:00"
	case strings.Contains(lower, "dawn"):
		return "03:00", "06:00"
	default:
		return "22:00", "06:00"
	}
}
