package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	renewedAt time.Time
	window    time.Duration
	err       error
}

func (l *fakeLedger) RenewExpiredBudgets(_ context.Context, now time.Time) (int, error) {
	l.renewedAt = now
	return 1, l.err
}

func (l *fakeLedger) RemindDueGoals(_ context.Context, _ time.Time, within time.Duration) (int, error) {
	l.window = within
	return 0, l.err
}

type fakeSweeper struct{ calls int }

func (s *fakeSweeper) Sweep(context.Context) error {
	s.calls++
	return nil
}

func TestJobsCallTheLedger(t *testing.T) {
	ledger := &fakeLedger{}
	sweeper := &fakeSweeper{}
	s := New(ledger, sweeper, nil)
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.RenewBudgets()
	s.RemindGoals()
	s.SweepOutbox()

	assert.Equal(t, fixed, ledger.renewedAt)
	assert.Equal(t, reminderWindow, ledger.window)
	assert.Equal(t, 1, sweeper.calls)

	ledger.err = errors.New("database is down")
	s.RenewBudgets()
	s.RemindGoals()
}

func TestRegister(t *testing.T) {
	s := New(&fakeLedger{}, nil, nil)
	require.NoError(t, s.Register(DefaultSpecs))
	assert.Len(t, s.cron.Entries(), 2)

	s = New(&fakeLedger{}, &fakeSweeper{}, nil)
	require.NoError(t, s.Register(DefaultSpecs))
	assert.Len(t, s.cron.Entries(), 3)

	bad := DefaultSpecs
	bad.BudgetRenewal = "every full moon"
	assert.Error(t, New(&fakeLedger{}, nil, nil).Register(bad))
}

func TestStartStop(t *testing.T) {
	s := New(&fakeLedger{}, nil, nil)
	require.NoError(t, s.Register(DefaultSpecs))
	s.Start()
	s.Stop()
}
