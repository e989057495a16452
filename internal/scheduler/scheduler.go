// Package scheduler runs the bot's periodic maintenance jobs (term-pool
// warmup) on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"github.com/abhishek9871/xbot/internal/logging"
)

// Job represents a scheduled task
type Job func(ctx context.Context) error

// jobTimeout bounds a single job run
const jobTimeout = 10 * time.Minute

// Scheduler manages periodic tasks
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]cron.EntryID
	log  *log.Logger
}

// New creates a new scheduler running in UTC, matching the rotation table
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		jobs: make(map[string]cron.EntryID),
		log:  logging.WithPrefix("scheduler"),
	}
}

// AddJob adds a job with a cron schedule
// schedule format: "5 * * * *" (five past every hour)
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	entryID, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		s.log.Debug("Starting job", "job", name)
		start := time.Now()

		if err := job(ctx); err != nil {
			s.log.Error("Job failed", "job", name, "error", err)
		} else {
			s.log.Debug("Job completed", "job", name, "duration", time.Since(start))
		}
	})

	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.log.Info("Added job", "job", name, "schedule", schedule)

	return nil
}

// AddHourlyJob schedules a job shortly after every hour boundary, when the
// rotation slot has just changed.
func (s *Scheduler) AddHourlyJob(name string, job Job) error {
	return s.AddJob(name, "5 * * * *", job)
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.log.Info("Starting scheduler")
	s.cron.Start()
}

// Stop halts the scheduler; the returned context is done when running jobs
// have finished
func (s *Scheduler) Stop() context.Context {
	s.log.Info("Stopping scheduler")
	return s.cron.Stop()
}
