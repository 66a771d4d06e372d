// Package astro computes moon state and viewing-condition scores. These are
// heuristic models tuned for "is tonight worth going outside", not an
// ephemeris.
package astro

import (
	"math"
	"time"
)

// SynodicMonth is the lunar cycle length in days.
const SynodicMonth = 29.53059

// Reference new moon: January 6, 2000 18:14 UTC.
var newMoonRef = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

// MoonPhase returns the fractional position in the synodic cycle for t, in
// [0, 1). 0 is new moon, 0.5 is full.
func MoonPhase(t time.Time) float64 {
	days := t.Sub(newMoonRef).Hours() / 24
	frac := math.Mod(days/SynodicMonth, 1)
	if frac < 0 {
		frac += 1
	}
	return frac
}

// MoonIllumination returns an approximate illuminated percentage (0-100)
// derived as round(|cos(phase*2pi)|*100). The cosine model is a historical
// approximation, not physical illumination: it reports ~100 at the new moon
// anchor as well as at full moon. Kept as-is for behavioral compatibility.
func MoonIllumination(t time.Time) int {
	phase := MoonPhase(t)
	return int(math.Round(math.Abs(math.Cos(phase*2*math.Pi)) * 100))
}
