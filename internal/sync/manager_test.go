package sync

import (
	"context"
	"testing"

	"github.com/MrSnakeDoc/smartmark/internal/cache"
	"github.com/MrSnakeDoc/smartmark/internal/domain"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
)

func newTestManager(t *testing.T, remote Remote, feed Feed) *Manager {
	t.Helper()
	snaps, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("cache.New() failed: %v", err)
	}
	return NewManager(remote, feed, snaps, logger.New("error", false))
}

func TestManagerReturnsSameCollection(t *testing.T) {
	remote := newFakeRemote()
	feed := newFakeFeed()
	m := newTestManager(t, remote, feed)
	defer m.Close()

	owner := domain.Identity{ID: "u1", Email: "u1@example.com"}
	first, err := m.Collection(context.Background(), owner)
	if err != nil {
		t.Fatalf("Collection() failed: %v", err)
	}
	second, err := m.Collection(context.Background(), owner)
	if err != nil {
		t.Fatalf("second Collection() failed: %v", err)
	}
	if first != second {
		t.Error("expected the same live collection for repeated access")
	}
	remote.mu.Lock()
	got := remote.queries
	remote.mu.Unlock()
	if got != 1 {
		t.Errorf("remote queried %d times, want 1 (load happens once)", got)
	}
}

func TestManagerIsolatesOwners(t *testing.T) {
	remote := newFakeRemote()
	m := newTestManager(t, remote, newFakeFeed())
	defer m.Close()

	a, _ := m.Collection(context.Background(), domain.Identity{ID: "a"})
	b, _ := m.Collection(context.Background(), domain.Identity{ID: "b"})
	if a == b {
		t.Fatal("different owners must get different collections")
	}

	if _, err := a.Add(context.Background(), "Mine", "https://a.example.com"); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if got := len(b.List()); got != 0 {
		t.Errorf("owner b sees %d bookmarks, want 0", got)
	}
}

func TestManagerDegradedLoadStillYieldsCollection(t *testing.T) {
	remote := newFakeRemote()
	remote.failAll = true
	m := newTestManager(t, remote, newFakeFeed())
	defer m.Close()

	col, err := m.Collection(context.Background(), domain.Identity{ID: "u1"})
	if err == nil {
		t.Error("expected load error when the backend is unreachable")
	}
	if col == nil {
		t.Fatal("expected a usable collection despite the failed load")
	}
	if !col.Degraded() {
		t.Error("collection should be flagged degraded")
	}
}

func TestManagerEvictTearsDownFeed(t *testing.T) {
	feed := newFakeFeed()
	m := newTestManager(t, newFakeRemote(), feed)

	owner := domain.Identity{ID: "u1"}
	if _, err := m.Collection(context.Background(), owner); err != nil {
		t.Fatalf("Collection() failed: %v", err)
	}

	m.Evict(owner.ID)
	feed.mu.Lock()
	teardowns := feed.teardowns
	feed.mu.Unlock()
	if teardowns != 1 {
		t.Errorf("feed torn down %d times, want 1", teardowns)
	}

	// Evicting an unknown owner is a no-op.
	m.Evict("ghost")
}

func TestManagerCloseTearsDownEverything(t *testing.T) {
	feed := newFakeFeed()
	m := newTestManager(t, newFakeRemote(), feed)

	for _, id := range []string{"a", "b", "c"} {
		if _, err := m.Collection(context.Background(), domain.Identity{ID: id}); err != nil {
			t.Fatalf("Collection(%q) failed: %v", id, err)
		}
	}

	m.Close()
	feed.mu.Lock()
	teardowns := feed.teardowns
	feed.mu.Unlock()
	if teardowns != 3 {
		t.Errorf("feed torn down %d times, want 3", teardowns)
	}
}
