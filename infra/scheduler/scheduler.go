// Package scheduler runs the periodic budget sweeps on cron schedules.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pennywiseapp/pennywise/pkg/config"
	budgetsvc "github.com/pennywiseapp/pennywise/pkg/service/budget"
)

// Scheduler owns the cron runner for the budget recompute sweep and the
// threshold re-evaluation sweep.
type Scheduler struct {
	cron    *cron.Cron
	budgets *budgetsvc.Service
	cfg     config.SchedulerConfig
	logger  *slog.Logger
}

// New creates a scheduler. Jobs are registered on Start.
func New(budgets *budgetsvc.Service, cfg config.SchedulerConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		budgets: budgets,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the sweep jobs and starts the cron runner. It is a
// no-op when the scheduler is disabled in config.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.BudgetCheckSpec, func() {
		s.run("budget recompute sweep", s.budgets.CheckAllActiveBudgets)
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.ThresholdSpec, func() {
		s.run("budget threshold sweep", s.budgets.CheckAllBudgetThresholds)
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		"budget_check_spec", s.cfg.BudgetCheckSpec,
		"threshold_spec", s.cfg.ThresholdSpec)
	return nil
}

// Stop stops the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(name string, job func(ctx context.Context) error) {
	start := time.Now()
	if err := job(context.Background()); err != nil {
		s.logger.Error(name+" failed", "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Info(name+" completed", "duration", time.Since(start))
}
