package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/smartmark/internal/cache"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
)

const (
	// DefaultSnapshotTTL is the age after which an untouched snapshot
	// file is pruned (the user has not signed in for a month)
	DefaultSnapshotTTL = 30 * 24 * time.Hour
)

// SnapshotJanitor periodically prunes stale per-user snapshot files.
// Snapshots are pure latency optimizations, so losing one only costs
// the instant first paint of a user who has been away anyway.
type SnapshotJanitor struct {
	snapshots *cache.Snapshots
	logger    logger.Logger
	interval  time.Duration
	ttl       time.Duration
	stopCh    chan struct{}
}

// NewSnapshotJanitor creates a new snapshot janitor
func NewSnapshotJanitor(snapshots *cache.Snapshots, log logger.Logger, interval, ttl time.Duration) *SnapshotJanitor {
	if ttl == 0 {
		ttl = DefaultSnapshotTTL
	}

	return &SnapshotJanitor{
		snapshots: snapshots,
		logger:    log,
		interval:  interval,
		ttl:       ttl,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic pruning process
func (j *SnapshotJanitor) Start(ctx context.Context) error {
	// Run immediately on start
	if err := j.Collect(); err != nil {
		j.logger.Warn("initial snapshot pruning failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := j.Collect(); err != nil {
					j.logger.Error("snapshot pruning failed",
						logger.Error(err))
				}
			case <-j.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the janitor
func (j *SnapshotJanitor) Stop() {
	close(j.stopCh)
}

// Collect removes snapshot files untouched for longer than the TTL
func (j *SnapshotJanitor) Collect() error {
	removed, err := j.snapshots.Prune(j.ttl)
	if err != nil {
		return err
	}

	if removed > 0 {
		j.logger.Info("snapshot pruning completed",
			logger.Int("snapshots_deleted", removed))
	} else {
		j.logger.Debug("no snapshots to prune")
	}

	return nil
}
