// Package catalog provides the read-only meteor shower reference dataset.
// The data is fixed at build time and injected into consumers; nothing
// mutates it at runtime.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed showers.toml
var embedded []byte

// MoonSensitivity levels declared per shower. Faint-meteor showers wash out
// faster under moonlight.
const (
	SensitivityHigh   = "high"
	SensitivityMedium = "medium"
	SensitivityLow    = "low"
)

// Hemisphere visibility values.
const (
	HemisphereNorthern = "northern"
	HemisphereSouthern = "southern"
	HemisphereBoth     = "both"
)

// Shower is one catalog entry. Activity dates are month-day strings (MM-DD);
// the active window may wrap the year boundary (e.g. Quadrantids).
type Shower struct {
	ID              string `toml:"id" json:"id"`
	Name            string `toml:"name" json:"name"`
	ActiveFrom      string `toml:"active_from" json:"activeFrom"`
	ActiveTo        string `toml:"active_to" json:"activeTo"`
	Peak            string `toml:"peak" json:"peak"`
	PeakTime        string `toml:"peak_time" json:"peakTime"`
	ZHR             int    `toml:"zhr" json:"zhr"`
	Radiant         string `toml:"radiant" json:"radiant"`
	MoonSensitivity string `toml:"moon_sensitivity" json:"moonSensitivity"`
	Hemisphere      string `toml:"hemisphere" json:"hemisphere"`
	BestViewing     string `toml:"best_viewing" json:"bestViewing"`
}

// Catalog is an immutable collection of shower definitions.
type Catalog struct {
	showers []Shower
	byID    map[string]Shower
}

type catalogFile struct {
	Showers []Shower `toml:"showers"`
}

// New loads the embedded shower dataset.
func New() (*Catalog, error) {
	return Parse(bytes.NewReader(embedded))
}

// Parse reads a TOML catalog from r. Exposed so tests can build synthetic
// catalogs.
func Parse(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		showers: f.Showers,
		byID:    make(map[string]Shower, len(f.Showers)),
	}
	for _, s := range f.Showers {
		if s.ID == "" {
			return nil, fmt.Errorf("catalog entry %q missing id", s.Name)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate shower id %q", s.ID)
		}
		if _, err := parseMonthDay(s.Peak); err != nil {
			return nil, fmt.Errorf("shower %q: invalid peak: %w", s.ID, err)
		}
		c.byID[s.ID] = s
	}
	return c, nil
}

// ByID looks up a shower definition.
func (c *Catalog) ByID(id string) (Shower, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// All returns every shower in catalog order.
func (c *Catalog) All() []Shower {
	out := make([]Shower, len(c.showers))
	copy(out, c.showers)
	return out
}

// ActiveOn returns showers whose activity window contains the given date.
func (c *Catalog) ActiveOn(t time.Time) []Shower {
	md := monthDay(t)
	var out []Shower
	for _, s := range c.showers {
		from, err1 := parseMonthDay(s.ActiveFrom)
		to, err2 := parseMonthDay(s.ActiveTo)
		if err1 != nil || err2 != nil {
			continue
		}
		if inWindow(md, from, to) {
			out = append(out, s)
		}
	}
	return out
}

// WithMinZHR returns showers whose ZHR is at least min, in catalog order.
func (c *Catalog) WithMinZHR(min int) []Shower {
	var out []Shower
	for _, s := range c.showers {
		if s.ZHR >= min {
			out = append(out, s)
		}
	}
	return out
}

// NextPeak returns the first peak instant of the shower after the given
// time, in the given timezone.
func (c *Catalog) NextPeak(s Shower, after time.Time, loc *time.Location) (time.Time, error) {
	md, err := parseMonthDay(s.Peak)
	if err != nil {
		return time.Time{}, fmt.Errorf("shower %q: %w", s.ID, err)
	}
	hour, min := 0, 0
	if s.PeakTime != "" {
		pt, err := time.Parse("15:04", s.PeakTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("shower %q: invalid peak time: %w", s.ID, err)
		}
		hour, min = pt.Hour(), pt.Minute()
	}

	peak := time.Date(after.Year(), time.Month(md/100), md%100, hour, min, 0, 0, loc)
	if !peak.After(after) {
		peak = time.Date(after.Year()+1, time.Month(md/100), md%100, hour, min, 0, 0, loc)
	}
	return peak, nil
}

// monthDay encodes a date's month and day as MMDD for window comparisons.
func monthDay(t time.Time) int {
	return int(t.Month())*100 + t.Day()
}

func parseMonthDay(s string) (int, error) {
	t, err := time.Parse("01-02", s)
	if err != nil {
		return 0, fmt.Errorf("invalid month-day %q: %w", s, err)
	}
	return int(t.Month())*100 + t.Day(), nil
}

// inWindow reports whether md falls inside [from, to], where the window may
// wrap the year boundary.
func inWindow(md, from, to int) bool {
	if from <= to {
		return md >= from && md <= to
	}
	return md >= from || md <= to
}
