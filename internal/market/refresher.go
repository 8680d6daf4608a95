package market

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Refresher drives the periodic market-data tick. Start is idempotent in
// the sense that it always tears down any previous ticker first, so
// repeated starts never accumulate duplicate timers.
type Refresher struct {
	interval time.Duration
	onTick   func()
	logger   zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher creates a refresher invoking onTick every interval.
func NewRefresher(interval time.Duration, onTick func(), logger zerolog.Logger) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Refresher{
		interval: interval,
		onTick:   onTick,
		logger:   logger,
	}
}

// Start begins the refresh loop, replacing any loop already running.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.onTick()
			}
		}
	}()

	r.logger.Debug().Dur("interval", r.interval).Msg("Auto-refresh started")
}

// Stop halts the refresh loop and waits for the worker to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// Running reports whether a refresh loop is active.
func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *Refresher) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
	r.logger.Debug().Msg("Auto-refresh stopped")
}
