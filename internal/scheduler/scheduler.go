package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the feed refresh on a cron cadence for long-lived
// deployments. One-shot runs (CI, cron jobs external to the process) bypass
// it entirely.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds())}
}

// Register adds a named task on a six-field cron expression.
func (s *Scheduler) Register(name, spec string, task func()) error {
	wrapped := func() {
		log.Printf("[INFO] running scheduled task: %s", name)
		task()
	}
	if _, err := s.cron.AddFunc(spec, wrapped); err != nil {
		return fmt.Errorf("register %s task: %w", name, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
