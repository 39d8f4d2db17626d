package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJobsUntilStopped(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler()
	s.AddJob("tick", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	NewScheduler().Stop()
}

func TestRunOnce_ContinuesAfterFailure(t *testing.T) {
	var order []string
	s := NewScheduler()
	s.AddJob("a", time.Hour, func(context.Context) error {
		order = append(order, "a")
		return errors.New("boom")
	})
	s.AddJob("b", time.Hour, func(context.Context) error {
		order = append(order, "b")
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"a", "b"}, order)
}

type fakeSweeper struct{ calls int }

func (f *fakeSweeper) Cleanup() int { f.calls++; return 3 }

type fakePurger struct{ before time.Time }

func (f *fakePurger) DeleteExpiredRefreshTokens(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return 1, nil
}

func TestMaintenanceJobs(t *testing.T) {
	sw := &fakeSweeper{}
	require.NoError(t, CacheSweepJob(sw)(context.Background()))
	assert.Equal(t, 1, sw.calls)

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	p := &fakePurger{}
	require.NoError(t, TokenPurgeJob(p, func() time.Time { return now })(context.Background()))
	assert.Equal(t, now.Add(-24*time.Hour), p.before)
}
