// Package sweeper runs the periodic reclaim of expired locker reservations.
package sweeper

import (
	"context"
	"log/slog"
	"time"
)

// Engine is the slice of the locker engine the sweeper needs.
type Engine interface {
	SweepExpiredReservations(ctx context.Context) (int64, error)
}

// DefaultInterval is how often expired reservations are reclaimed.
const DefaultInterval = 30 * time.Second

// Sweeper periodically frees reserved lockers whose hold has expired.
// The engine also sweeps opportunistically before allocation-sensitive reads;
// this loop is the backstop that reclaims capacity on an idle system.
type Sweeper struct {
	engine   Engine
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Sweeper. If interval is 0 or negative, DefaultInterval is used.
func New(engine Engine, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{engine: engine, interval: interval, logger: logger}
}

// Run blocks, sweeping on every tick until ctx is cancelled.
// Intended to be started as a goroutine at process startup.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("reservation sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reservation sweeper stopped")
			return
		case <-ticker.C:
			swept, err := s.engine.SweepExpiredReservations(ctx)
			if err != nil {
				s.logger.Error("reservation sweep failed", "error", err)
				continue
			}
			if swept > 0 {
				s.logger.Info("expired reservations reclaimed", "count", swept)
			}
		}
	}
}
