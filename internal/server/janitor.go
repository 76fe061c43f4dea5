package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/me/loginhub/internal/metrics"
	"github.com/me/loginhub/internal/store"
)

// Janitor periodically removes tab-scoped storage that has been idle for
// longer than the configured TTL. Browser-session cookies give no signal
// when a tab closes, so idleness is the only way to reclaim the rows.
type Janitor struct {
	store    store.Store
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

var errJanitorUsed = errors.New("janitor already started or stopped")

// NewJanitor creates a Janitor. m may be nil.
func NewJanitor(st store.Store, ttl, interval time.Duration, logger *slog.Logger, m *metrics.Metrics) *Janitor {
	return &Janitor{
		store:    st,
		ttl:      ttl,
		interval: interval,
		logger:   logger.With("component", "janitor"),
		metrics:  m,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop until ctx is cancelled or Stop is called. A
// janitor runs at most once.
func (j *Janitor) Start(ctx context.Context) error {
	if !j.claim() {
		return errJanitorUsed
	}
	return j.run(ctx)
}

// claim marks the janitor as started so Stop knows to wait for it.
func (j *Janitor) claim() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return false
	}
	j.started = true
	return true
}

func (j *Janitor) run(ctx context.Context) error {
	defer close(j.doneCh)
	if j.ttl <= 0 || j.interval <= 0 {
		j.logger.Info("janitor disabled", "ttl", j.ttl, "interval", j.interval)
		return nil
	}

	j.logger.Info("janitor started", "ttl", j.ttl, "interval", j.interval)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor stopping (context cancelled)")
			return ctx.Err()
		case <-j.stopCh:
			j.logger.Info("janitor stopping (stop called)")
			return nil
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil {
				j.logger.Error("sweep error", "error", err)
			}
		}
	}
}

// Stop asks a running janitor to exit and waits for it. Stopping a janitor
// that never started returns at once and keeps it from starting later.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
	j.mu.Lock()
	started := j.started
	j.started = true
	j.mu.Unlock()
	if started {
		<-j.doneCh
	}
}

// Sweep removes tab storage idle for longer than the TTL.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	n, err := j.store.DeleteStale(ctx, store.ScopeTab, j.now().Add(-j.ttl))
	if err != nil {
		return 0, err
	}
	j.metrics.TabsSwept(n)
	if n > 0 {
		j.logger.Info("swept idle tab storage", "rows", n)
	}
	return n, nil
}
