package housekeeping_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/housekeeping"
)

type fakePurger struct {
	mu    sync.Mutex
	calls []time.Time
	n     int64
	err   error
}

func (p *fakePurger) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, now)
	return p.n, p.err
}

func (p *fakePurger) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type fakePruner struct {
	pruned int
}

func (p *fakePruner) Prune(time.Time) int {
	p.pruned++
	return 0
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	sessions := &fakePurger{n: 3}
	verifications := &fakePurger{err: errors.New("locked")}
	cache := &fakePruner{}

	sweeper := housekeeping.NewSweeper(housekeeping.Config{
		Interval: time.Hour,
		Now:      func() time.Time { return now },
		Logger:   quietLogger(),
	}, map[string]housekeeping.Purger{
		"sessions":      sessions,
		"verifications": verifications,
	}, cache)

	require.EqualValues(t, 3, sweeper.RunOnce(context.Background()))
	require.Equal(t, []time.Time{now}, sessions.calls)
	require.Equal(t, 1, verifications.callCount())
	require.Equal(t, 1, cache.pruned)
}

func TestStartAndShutdown(t *testing.T) {
	purger := &fakePurger{}
	sweeper := housekeeping.NewSweeper(housekeeping.Config{
		Interval: 10 * time.Millisecond,
		Logger:   quietLogger(),
	}, map[string]housekeeping.Purger{"sessions": purger}, nil)

	require.NoError(t, sweeper.Start(context.Background()))
	require.Eventually(t, func() bool { return purger.callCount() >= 2 }, time.Second, 5*time.Millisecond)

	sweeper.Shutdown()
	calls := purger.callCount()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, calls, purger.callCount())
}
