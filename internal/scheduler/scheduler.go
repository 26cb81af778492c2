// Package scheduler runs the periodic maintenance jobs of the service.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	SessionSweepSpec = "@every 15m"
	RunwayAlertSpec  = "0 9 * * *"

	jobTimeout = 2 * time.Minute
)

// Jobs is the work the scheduler triggers
type Jobs interface {
	SweepSessions(ctx context.Context) (int, error)
	CheckRunwayAlerts(ctx context.Context) (int, error)
}

// Scheduler wraps a cron runner
type Scheduler struct {
	cron *cron.Cron
	jobs Jobs
	log  *logrus.Logger
}

// New creates a scheduler. Runway alerts are skipped when alerts is false.
func New(jobs Jobs, log *logrus.Logger, alerts bool) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		jobs: jobs,
		log:  log,
	}
	if _, err := s.cron.AddFunc(SessionSweepSpec, s.sweepSessions); err != nil {
		return nil, fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	if alerts {
		if _, err := s.cron.AddFunc(RunwayAlertSpec, s.runwayAlerts); err != nil {
			return nil, fmt.Errorf("failed to schedule runway alerts: %w", err)
		}
	}
	return s, nil
}

// Start runs the jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Scheduler started with %d jobs", len(s.cron.Entries()))
}

// Stop halts the scheduler and waits for running jobs up to ctx's deadline
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stopped before jobs finished")
	}
}

func (s *Scheduler) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.jobs.SweepSessions(ctx)
	if err != nil {
		s.log.Errorf("Session sweep failed: %v", err)
		return
	}
	if n > 0 {
		s.log.Infof("Removed %d expired sessions", n)
	}
}

func (s *Scheduler) runwayAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.jobs.CheckRunwayAlerts(ctx)
	if err != nil {
		s.log.Errorf("Runway alert check failed: %v", err)
		return
	}
	s.log.Infof("Runway alerts sent: %d", n)
}
