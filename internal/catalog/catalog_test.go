package catalog

import (
	"strings"
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNew_EmbeddedCatalog(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(c.All()) < 8 {
		t.Errorf("len(All()) = %d, want at least the major annual showers", len(c.All()))
	}

	perseids, ok := c.ByID("perseids")
	if !ok {
		t.Fatal("perseids missing from catalog")
	}
	if perseids.ZHR != 100 {
		t.Errorf("perseids ZHR = %d, want 100", perseids.ZHR)
	}
	if perseids.Hemisphere != HemisphereNorthern {
		t.Errorf("perseids hemisphere = %q", perseids.Hemisphere)
	}
}

func TestByID_Unknown(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.ByID("halleys-comet"); ok {
		t.Error("expected unknown id to miss")
	}
}

func TestActiveOn(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		date       string
		wantActive []string
	}{
		{"2025-08-12", []string{"perseids", "delta-aquariids"}},
		{"2025-12-14", []string{"geminids"}},
		{"2025-04-22", []string{"lyrids", "eta-aquariids"}},
		{"2025-03-15", nil},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			active := c.ActiveOn(date(tt.date))
			ids := make(map[string]bool)
			for _, s := range active {
				ids[s.ID] = true
			}
			for _, want := range tt.wantActive {
				if !ids[want] {
					t.Errorf("ActiveOn(%s): %s not active, got %v", tt.date, want, ids)
				}
			}
			if tt.wantActive == nil && len(active) != 0 {
				t.Errorf("ActiveOn(%s) = %v, want none", tt.date, ids)
			}
		})
	}
}

func TestActiveOn_YearWrap(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Quadrantids run Dec 28 to Jan 12 across the year boundary.
	for _, d := range []string{"2025-12-29", "2026-01-02", "2026-01-12"} {
		found := false
		for _, s := range c.ActiveOn(date(d)) {
			if s.ID == "quadrantids" {
				found = true
			}
		}
		if !found {
			t.Errorf("quadrantids not active on %s", d)
		}
	}

	for _, s := range c.ActiveOn(date("2026-01-20")) {
		if s.ID == "quadrantids" {
			t.Error("quadrantids active on Jan 20, window should have closed")
		}
	}
}

func TestWithMinZHR(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	big := c.WithMinZHR(100)
	ids := make([]string, 0, len(big))
	for _, s := range big {
		ids = append(ids, s.ID)
	}
	want := []string{"quadrantids", "perseids", "geminids"}
	if len(ids) != len(want) {
		t.Fatalf("WithMinZHR(100) = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("WithMinZHR(100)[%d] = %s, want %s (catalog order)", i, ids[i], want[i])
		}
	}

	if got := len(c.WithMinZHR(0)); got != len(c.All()) {
		t.Errorf("WithMinZHR(0) returned %d showers, want all %d", got, len(c.All()))
	}
}

func TestNextPeak(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	perseids, _ := c.ByID("perseids")

	// Before this year's peak.
	peak, err := c.NextPeak(perseids, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), time.UTC)
	if err != nil {
		t.Fatalf("NextPeak: %v", err)
	}
	want := time.Date(2025, 8, 12, 3, 0, 0, 0, time.UTC)
	if !peak.Equal(want) {
		t.Errorf("NextPeak = %s, want %s", peak, want)
	}

	// After this year's peak rolls to next year.
	peak, err = c.NextPeak(perseids, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), time.UTC)
	if err != nil {
		t.Fatalf("NextPeak: %v", err)
	}
	want = time.Date(2026, 8, 12, 3, 0, 0, 0, time.UTC)
	if !peak.Equal(want) {
		t.Errorf("NextPeak after peak = %s, want %s", peak, want)
	}
}

func TestParse_SyntheticCatalog(t *testing.T) {
	src := `
[[showers]]
id = "testids"
name = "Testids"
active_from = "06-01"
active_to = "06-30"
peak = "06-15"
peak_time = "01:30"
zhr = 42
moon_sensitivity = "low"
hemisphere = "both"
best_viewing = "midnight"
`
	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, ok := c.ByID("testids")
	if !ok {
		t.Fatal("testids missing")
	}
	if s.ZHR != 42 || s.PeakTime != "01:30" {
		t.Errorf("parsed shower = %+v", s)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing id", "[[showers]]\nname = \"Nameless\"\npeak = \"01-01\"\n"},
		{"duplicate id", "[[showers]]\nid = \"x\"\npeak = \"01-01\"\n\n[[showers]]\nid = \"x\"\npeak = \"01-02\"\n"},
		{"bad peak", "[[showers]]\nid = \"x\"\npeak = \"13-40\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.src)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}
