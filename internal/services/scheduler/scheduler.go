// Package scheduler runs the window janitor: a low-priority ticker that
// finalises an already-expired aggregation window even when no further
// ingest traffic arrives to trigger the lazy rotation on its own.
package scheduler

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
)

// Rotator is the subset of the aggregator's state machine the janitor
// needs. It never force-finalises a live window — only one that has
// already passed its window_end.
type Rotator interface {
	MaybeRotate(ctx context.Context)
}

// Scheduler drives Rotator.MaybeRotate on a fixed interval.
type Scheduler struct {
	rotator  Rotator
	logger   lgr.L
	interval time.Duration
}

// New builds a Scheduler. An interval of zero means the janitor is
// disabled; callers should not call Start in that case.
func New(rotator Rotator, interval time.Duration, logger lgr.L) *Scheduler {
	return &Scheduler{
		rotator:  rotator,
		logger:   logger,
		interval: interval,
	}
}

// Start runs the ticker loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Logf("INFO window janitor started with interval %v", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Logf("INFO window janitor stopped")
			return
		case <-ticker.C:
			s.rotator.MaybeRotate(ctx)
		}
	}
}
