// Package scheduler runs the periodic jobs: budget renewal, goal deadline
// reminders and redelivery of notifications stuck in the outbox.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Ledger is the part of the ledger the jobs drive.
type Ledger interface {
	RenewExpiredBudgets(ctx context.Context, now time.Time) (int, error)
	RemindDueGoals(ctx context.Context, now time.Time, within time.Duration) (int, error)
}

// Sweeper redelivers pending notifications.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

type Specs struct {
	BudgetRenewal string
	GoalReminders string
	OutboxSweep   string
}

var DefaultSpecs = Specs{
	BudgetRenewal: "@daily",
	GoalReminders: "0 9 * * *",
	OutboxSweep:   "@every 1m",
}

const reminderWindow = 3 * 24 * time.Hour

type Scheduler struct {
	cron    *cron.Cron
	ledger  Ledger
	sweeper Sweeper
	log     *slog.Logger
	now     func() time.Time
}

func New(ledger Ledger, sweeper Sweeper, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		ledger:  ledger,
		sweeper: sweeper,
		log:     logger.With("component", "scheduler"),
		now:     time.Now,
	}
}

// Register adds the jobs with the given cron specs. A nil sweeper skips the
// outbox job.
func (s *Scheduler) Register(specs Specs) error {
	if _, err := s.cron.AddFunc(specs.BudgetRenewal, s.RenewBudgets); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(specs.GoalReminders, s.RemindGoals); err != nil {
		return err
	}
	if s.sweeper != nil {
		if _, err := s.cron.AddFunc(specs.OutboxSweep, s.SweepOutbox); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RenewBudgets() {
	n, err := s.ledger.RenewExpiredBudgets(context.Background(), s.now().UTC())
	if err != nil {
		s.log.Error("error renewing expired budgets", "err", err)
		return
	}
	if n > 0 {
		s.log.Info("budgets renewed", "count", n)
	}
}

func (s *Scheduler) RemindGoals() {
	n, err := s.ledger.RemindDueGoals(context.Background(), s.now().UTC(), reminderWindow)
	if err != nil {
		s.log.Error("error sending goal reminders", "err", err)
		return
	}
	s.log.Debug("goal reminders sent", "count", n)
}

func (s *Scheduler) SweepOutbox() {
	if err := s.sweeper.Sweep(context.Background()); err != nil {
		s.log.Error("error sweeping notification outbox", "err", err)
	}
}
