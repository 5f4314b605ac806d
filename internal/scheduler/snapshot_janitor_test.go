package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/smartmark/internal/cache"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
)

func TestSnapshotJanitorCollect(t *testing.T) {
	log := logger.New("error", false)
	dir := t.TempDir()

	snaps, err := cache.New(dir)
	if err != nil {
		t.Fatalf("cache.New() failed: %v", err)
	}

	if err := snaps.Write("stale", nil); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if err := snaps.Write("active", nil); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	old := time.Now().Add(-35 * 24 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "bookmarks_stale.json"), old, old); err != nil {
		t.Fatalf("failed to age snapshot: %v", err)
	}

	janitor := NewSnapshotJanitor(snaps, log, 24*time.Hour, 30*24*time.Hour)
	if err := janitor.Collect(); err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}

	if _, ok := snaps.Read("stale"); ok {
		t.Error("stale snapshot survived Collect()")
	}
	if _, ok := snaps.Read("active"); !ok {
		t.Error("active snapshot removed by Collect()")
	}
}

func TestSnapshotJanitorDefaultTTL(t *testing.T) {
	snaps, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("cache.New() failed: %v", err)
	}

	janitor := NewSnapshotJanitor(snaps, logger.New("error", false), time.Hour, 0)
	if janitor.ttl != DefaultSnapshotTTL {
		t.Errorf("ttl = %v, want default %v", janitor.ttl, DefaultSnapshotTTL)
	}
}
