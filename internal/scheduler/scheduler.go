// Package scheduler runs the periodic maintenance jobs on a cron runner.
package scheduler

import (
	"context"
	"fmt"

	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Job is one unit of periodic work.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// Entry binds a job to its cron schedule.
type Entry struct {
	Name     string
	Schedule string
	Job      Job
}

type Scheduler struct {
	cron    *cron.Cron
	entries []Entry
}

// New validates every schedule and registers the entries. Nothing runs
// until Run is called.
func New(ctx context.Context, entries ...Entry) (*Scheduler, error) {
	c := cron.New()
	for _, e := range entries {
		e := e // per-iteration copy; go.mod targets go1.21 loop semantics
		_, err := c.AddFunc(e.Schedule, func() {
			if err := e.Job.Run(ctx); err != nil {
				logger.Log.WithError(err).WithField("job", e.Name).Error("Scheduled job failed")
			}
		})
		if err != nil {
			return nil, fmt.Errorf("invalid schedule %q for job %s: %w", e.Schedule, e.Name, err)
		}
	}
	return &Scheduler{cron: c, entries: entries}, nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Run starts the cron runner and blocks until ctx is cancelled, then
// waits for running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	for _, e := range s.entries {
		logger.Log.WithField("job", e.Name).WithField("schedule", e.Schedule).Info("Scheduled job registered")
	}

	<-ctx.Done()
	<-s.cron.Stop().Done()
	logger.Log.Info("Scheduler stopped")
	return nil
}
