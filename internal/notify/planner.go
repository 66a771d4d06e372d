// Package notify plans peak reminders from the shower catalog and the
// user's notification settings. Delivery mechanics belong to an external
// notification layer; the planner only decides what to remind about and
// when.
package notify

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/lox/meteorlog/internal/catalog"
	"github.com/lox/meteorlog/internal/metrics"
	"github.com/lox/meteorlog/internal/models"
)

// Reminder reasons.
const (
	ReasonUpcoming = "upcoming"
	ReasonPeak     = "peak"
)

// Reminder is one planned notification instant for a shower peak.
type Reminder struct {
	ShowerID string    `json:"showerId"`
	Shower   string    `json:"shower"`
	ZHR      int       `json:"zhr"`
	Peak     time.Time `json:"peak"`
	NotifyAt time.Time `json:"notifyAt"`
	Reason   string    `json:"reason"`
}

// Notifier receives planned reminders when they fall due.
type Notifier interface {
	Notify(Reminder) error
}

// LogNotifier writes reminders to the process log. Stands in for a real
// push delivery layer.
type LogNotifier struct{}

func (LogNotifier) Notify(r Reminder) error {
	log.Printf("notify: %s peaks %s (ZHR %d)", r.Shower, r.Peak.Format(time.RFC3339), r.ZHR)
	return nil
}

type Planner struct {
	catalog *catalog.Catalog
	loc     *time.Location
}

func NewPlanner(c *catalog.Catalog, loc *time.Location) *Planner {
	return &Planner{catalog: c, loc: loc}
}

// Plan builds the upcoming reminder list as of the given instant: showers
// with ZHR at or above the configured minimum, one advance reminder
// daysBefore the peak and one hoursBeforePeak the peak itself. Reminders
// already in the past are dropped. Returns reminders sorted by notify time.
func (p *Planner) Plan(settings models.NotificationSettings, asOf time.Time) ([]Reminder, error) {
	if !settings.Enabled {
		metrics.RemindersPlanned.Set(0)
		return nil, nil
	}

	var plan []Reminder
	for _, s := range p.catalog.WithMinZHR(settings.MinimumZHR) {
		peak, err := p.catalog.NextPeak(s, asOf, p.loc)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", s.ID, err)
		}

		if settings.DaysBefore > 0 {
			at := peak.AddDate(0, 0, -settings.DaysBefore)
			if at.After(asOf) {
				plan = append(plan, Reminder{
					ShowerID: s.ID,
					Shower:   s.Name,
					ZHR:      s.ZHR,
					Peak:     peak,
					NotifyAt: at,
					Reason:   ReasonUpcoming,
				})
			}
		}
		if settings.PeakReminder {
			at := peak.Add(-time.Duration(settings.HoursBeforePeak) * time.Hour)
			if at.After(asOf) {
				plan = append(plan, Reminder{
					ShowerID: s.ID,
					Shower:   s.Name,
					ZHR:      s.ZHR,
					Peak:     peak,
					NotifyAt: at,
					Reason:   ReasonPeak,
				})
			}
		}
	}

	sort.Slice(plan, func(i, j int) bool {
		return plan[i].NotifyAt.Before(plan[j].NotifyAt)
	})
	metrics.RemindersPlanned.Set(float64(len(plan)))
	return plan, nil
}
