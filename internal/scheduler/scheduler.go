// Package scheduler runs the recurring fleet sweep on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"tubetracker/internal/tracker"
)

// SyncJobID is the id the fleet sweep is registered under.
const SyncJobID = "sync_all_videos"

// Job describes a registered job.
type Job struct {
	ID   string
	Name string
	Spec string
	Next time.Time
}

// Scheduler wraps robfig/cron. A job never overlaps with its own previous
// run, and a panicking job is logged instead of crashing the process.
type Scheduler struct {
	cron   *cron.Cron
	logger tracker.Logger

	mu      sync.Mutex
	jobs    map[string]registered
	running bool
}

type registered struct {
	entry cron.EntryID
	name  string
	spec  string
}

// New creates a stopped scheduler evaluating schedules in UTC.
func New(logger tracker.Logger) *Scheduler {
	cl := cronLogger{logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		jobs:   make(map[string]registered),
	}
}

// Spec resolves the sweep schedule. cronSpec is tried as a standard
// five-field crontab, then as a minute list ("0,30" runs at :00 and :30 of
// every hour). Without cronSpec the sweep runs every intervalHours.
func Spec(cronSpec string, intervalHours int) (string, error) {
	cronSpec = strings.TrimSpace(cronSpec)
	if cronSpec == "" {
		if intervalHours < 1 {
			return "", fmt.Errorf("sync interval must be at least one hour, got %d", intervalHours)
		}
		return fmt.Sprintf("@every %dh", intervalHours), nil
	}

	if _, err := cron.ParseStandard(cronSpec); err == nil {
		return cronSpec, nil
	}
	minutes := cronSpec + " * * * *"
	if _, err := cron.ParseStandard(minutes); err == nil {
		return minutes, nil
	}
	return "", fmt.Errorf("invalid sync cron %q", cronSpec)
}

// Register adds fn under id. It reports false without error when id is
// already registered; the existing job is kept.
func (s *Scheduler) Register(id, name, spec string, fn func()) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; ok {
		s.logger.Debug("job already registered", "job", id)
		return false, nil
	}

	entry, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return false, fmt.Errorf("scheduling %s: %w", id, err)
	}
	s.jobs[id] = registered{entry: entry, name: name, spec: spec}
	s.logger.Info("job registered", "job", id, "name", name, "spec", spec)
	return true, nil
}

// Start begins running jobs. Calling it again has no effect.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for running jobs: %w", ctx.Err())
	}
}

// Jobs lists the registered jobs.
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Job, 0, len(s.jobs))
	for id, r := range s.jobs {
		out = append(out, Job{
			ID:   id,
			Name: r.name,
			Spec: r.spec,
			Next: s.cron.Entry(r.entry).Next,
		})
	}
	return out
}

// cronLogger adapts tracker.Logger to cron.Logger.
type cronLogger struct {
	l tracker.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
