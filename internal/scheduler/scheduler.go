// Package scheduler triggers assignment generation on a cron schedule
// so each day's chores exist before anyone looks at the dashboard.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// GenerateFunc materializes assignments for a date and reports how many
// were created.
type GenerateFunc func(date time.Time) (int, error)

// Scheduler runs the daily generation job. The expression uses standard
// 5-field cron syntax (minute, hour, dom, month, dow).
type Scheduler struct {
	cron     *cron.Cron
	generate GenerateFunc
	logger   *slog.Logger
}

func New(expr string, generate GenerateFunc, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		generate: generate,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(expr, s.run); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", expr, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	today := time.Now()
	created, err := s.generate(today)
	if err != nil {
		s.logger.Error("scheduled generation failed", "error", err)
		return
	}
	s.logger.Info("scheduled generation finished", "created", created)
}

// Start begins the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron loop and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
