package housekeeping

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Purger deletes rows that expired at or before now.
type Purger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// CachePruner evicts stale in-memory entries.
type CachePruner interface {
	Prune(now time.Time) int
}

// Sweeper periodically purges expired sessions and verification values.
type Sweeper interface {
	Start(ctx context.Context) error
	Shutdown()
	// RunOnce performs a single sweep and returns the number of purged rows.
	RunOnce(ctx context.Context) int64
}

type Config struct {
	Interval time.Duration
	Now      func() time.Time
	Logger   *logrus.Logger
}

type sweeper struct {
	cfg     Config
	purgers map[string]Purger
	cache   CachePruner

	wg     sync.WaitGroup
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSweeper builds a sweeper over named purgers. cache may be nil.
func NewSweeper(cfg Config, purgers map[string]Purger, cache CachePruner) Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &sweeper{
		cfg:     cfg,
		purgers: purgers,
		cache:   cache,
	}
}

func (s *sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(runCtx)
	}()

	s.cfg.Logger.Infof("housekeeping started, interval: %s", s.cfg.Interval)
	return nil
}

func (s *sweeper) Shutdown() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.cfg.Logger.Info("housekeeping stopped")
}

func (s *sweeper) loop(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *sweeper) RunOnce(ctx context.Context) int64 {
	now := s.cfg.Now().UTC()
	var total int64
	for name, p := range s.purgers {
		n, err := p.DeleteExpired(ctx, now)
		if err != nil {
			s.cfg.Logger.WithField("table", name).Warnf("purge expired rows: %v", err)
			continue
		}
		if n > 0 {
			s.cfg.Logger.WithField("table", name).Infof("purged %d expired rows", n)
		}
		total += n
	}
	if s.cache != nil {
		if n := s.cache.Prune(now); n > 0 {
			s.cfg.Logger.Debugf("pruned %d cached sessions", n)
		}
	}
	return total
}
