package astro

import (
	"math"
	"testing"
	"time"

	"github.com/lox/meteorlog/internal/catalog"
	"github.com/lox/meteorlog/internal/models"
)

var anchor = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

func TestMoonPhase_Anchor(t *testing.T) {
	phase := MoonPhase(anchor)
	if phase != 0 {
		t.Errorf("MoonPhase(anchor) = %v, want 0", phase)
	}
}

func TestMoonPhase_Range(t *testing.T) {
	dates := []time.Time{
		anchor,
		anchor.AddDate(0, 0, 10),
		anchor.AddDate(5, 3, 1),
		anchor.AddDate(25, 0, 0),
		anchor.AddDate(-2, 0, 0), // before the anchor
	}
	for _, d := range dates {
		phase := MoonPhase(d)
		if phase < 0 || phase >= 1 {
			t.Errorf("MoonPhase(%s) = %v, want [0,1)", d.Format("2006-01-02"), phase)
		}
	}
}

func TestMoonPhase_FullCycle(t *testing.T) {
	// Half a synodic month after the anchor the phase should be ~0.5.
	half := anchor.Add(time.Duration(SynodicMonth / 2 * 24 * float64(time.Hour)))
	phase := MoonPhase(half)
	if math.Abs(phase-0.5) > 0.001 {
		t.Errorf("MoonPhase(anchor + half cycle) = %v, want ~0.5", phase)
	}
}

func TestMoonIllumination_CosineQuirk(t *testing.T) {
	// The cosine model reports maximal "illumination" at the new moon
	// anchor (|cos 0| = 1). Intentional compatibility behavior.
	if got := MoonIllumination(anchor); got != 100 {
		t.Errorf("MoonIllumination(anchor) = %d, want 100", got)
	}

	// A quarter cycle later |cos| is ~0.
	quarter := anchor.Add(time.Duration(SynodicMonth / 4 * 24 * float64(time.Hour)))
	if got := MoonIllumination(quarter); got > 1 {
		t.Errorf("MoonIllumination(quarter) = %d, want ~0", got)
	}
}

func TestIsVisible(t *testing.T) {
	tests := []struct {
		name       string
		hemisphere string
		latitude   float64
		want       bool
	}{
		{"northern shower, northern observer", catalog.HemisphereNorthern, 45, true},
		{"northern shower, equator", catalog.HemisphereNorthern, 0, true},
		{"northern shower, southern observer", catalog.HemisphereNorthern, -30, false},
		{"southern shower, southern observer", catalog.HemisphereSouthern, -30, true},
		{"southern shower, northern observer", catalog.HemisphereSouthern, 45, false},
		{"both, northern observer", catalog.HemisphereBoth, 45, true},
		{"both, southern observer", catalog.HemisphereBoth, -45, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := catalog.Shower{Hemisphere: tt.hemisphere}
			loc := models.Location{Latitude: tt.latitude}
			if got := IsVisible(s, loc); got != tt.want {
				t.Errorf("IsVisible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPollutionImpact_Thresholds(t *testing.T) {
	tests := []struct {
		latitude float64
		want     string
	}{
		{65, PollutionLow},
		{-65, PollutionLow},
		{61, PollutionLow},
		{60, PollutionMedium}, // boundary: strictly above 60 is low
		{45, PollutionMedium},
		{30, PollutionMedium}, // boundary: strictly below 30 is high
		{29.9, PollutionHigh},
		{0, PollutionHigh},
		{-15, PollutionHigh},
	}

	for _, tt := range tests {
		if got := PollutionImpact(tt.latitude); got != tt.want {
			t.Errorf("PollutionImpact(%v) = %q, want %q", tt.latitude, got, tt.want)
		}
	}
}

func TestViewingConditions_Multipliers(t *testing.T) {
	// Quarter cycle after the anchor illumination is ~0, so the moonlight
	// penalty vanishes and only the pollution multiplier applies.
	quarter := anchor.Add(time.Duration(SynodicMonth / 4 * 24 * float64(time.Hour)))

	tests := []struct {
		name        string
		sensitivity string
		latitude    float64
		date        time.Time
		want        float64
	}{
		{"dark moon, mid latitude", catalog.SensitivityHigh, 45, quarter, 0.8},
		{"dark moon, high latitude", catalog.SensitivityHigh, 65, quarter, 1.0},
		{"dark moon, low latitude", catalog.SensitivityHigh, 15, quarter, 0.6},
		{"bright moon, high sensitivity", catalog.SensitivityHigh, 45, anchor, (1 - 0.8) * 0.8},
		{"bright moon, medium sensitivity", catalog.SensitivityMedium, 45, anchor, (1 - 0.5) * 0.8},
		{"bright moon, low sensitivity", catalog.SensitivityLow, 45, anchor, (1 - 0.2) * 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := catalog.Shower{MoonSensitivity: tt.sensitivity, Hemisphere: catalog.HemisphereBoth}
			loc := models.Location{Latitude: tt.latitude}
			vc := ViewingConditions(s, loc, tt.date)
			if math.Abs(vc.Visibility-tt.want) > 0.01 {
				t.Errorf("Visibility = %v, want %v", vc.Visibility, tt.want)
			}
			if vc.Visibility < 0 {
				t.Errorf("Visibility = %v, want >= 0", vc.Visibility)
			}
		})
	}
}

func TestViewingConditions_UnknownSensitivityDefaultsMedium(t *testing.T) {
	s := catalog.Shower{MoonSensitivity: "extreme"}
	vc := ViewingConditions(s, models.Location{Latitude: 45}, anchor)
	want := (1 - 0.5) * 0.8
	if math.Abs(vc.Visibility-want) > 0.01 {
		t.Errorf("Visibility = %v, want %v (medium fallback)", vc.Visibility, want)
	}
}

func TestViewingWindow(t *testing.T) {
	tests := []struct {
		desc      string
		wantStart string
		wantEnd   string
	}{
		{"best after midnight until dawn", "00:00", "04:00"},
		{"good from mid evening onwards", "20:00", "00:00"},
		{"pre-dawn hours are ideal", "03:00", "06:00"},
		{"whenever the sky is dark", "22:00", "06:00"},
		{"", "22:00", "06:00"},
	}

	for _, tt := range tests {
		start, end := ViewingWindow(tt.desc)
		if start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("ViewingWindow(%q) = %s-%s, want %s-%s", tt.desc, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}
