package notify

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/lox/meteorlog/internal/models"
)

// SettingsSource supplies the current notification settings on each replan.
type SettingsSource interface {
	Settings() models.NotificationSettings
}

// Scheduler periodically rebuilds the reminder plan and hands due reminders
// to the notifier. Each reminder fires at most once per peak.
type Scheduler struct {
	planner  *Planner
	settings SettingsSource
	notifier Notifier
	interval time.Duration
	sched    *gocron.Scheduler

	mu    sync.Mutex
	fired map[string]bool
}

func NewScheduler(planner *Planner, settings SettingsSource, notifier Notifier, interval time.Duration, loc *time.Location) *Scheduler {
	return &Scheduler{
		planner:  planner,
		settings: settings,
		notifier: notifier,
		interval: interval,
		sched:    gocron.NewScheduler(loc),
		fired:    make(map[string]bool),
	}
}

// Start begins periodic replanning. The first run happens immediately.
func (s *Scheduler) Start() error {
	if _, err := s.sched.Every(s.interval).StartImmediately().Do(s.replan); err != nil {
		return fmt.Errorf("schedule replan: %w", err)
	}
	s.sched.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.sched.Stop()
}

func (s *Scheduler) replan() {
	now := time.Now()
	plan, err := s.planner.Plan(s.settings.Settings(), now)
	if err != nil {
		log.Printf("notify: replan: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range plan {
		if r.NotifyAt.After(now.Add(s.interval)) {
			break
		}
		key := fmt.Sprintf("%s/%s/%d", r.ShowerID, r.Reason, r.Peak.Unix())
		if s.fired[key] {
			continue
		}
		if err := s.notifier.Notify(r); err != nil {
			log.Printf("notify: deliver %s: %v", r.ShowerID, err)
			continue
		}
		s.fired[key] = true
	}
}
