package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrSnakeDoc/smartmark/internal/domain"
)

// Snapshots persists the last-known full bookmark list per user as a
// JSON file named bookmarks_<user_id>.json. It is a latency
// optimization for instant first paint, never authoritative: every
// successful load, settled mutation and applied notification rewrites
// the file.
type Snapshots struct {
	dir string
}

func New(dir string) (*Snapshots, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &Snapshots{dir: dir}, nil
}

func (s *Snapshots) path(userID string) string {
	// User ids come from the identity provider; strip separators so a
	// hostile id cannot escape the snapshot dir.
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(userID)
	return filepath.Join(s.dir, "bookmarks_"+safe+".json")
}

// Read returns the cached list for the user, or (nil, false) when no
// usable snapshot exists. A corrupt file counts as absent.
func (s *Snapshots) Read(userID string) ([]domain.Bookmark, bool) {
	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		return nil, false
	}
	var list []domain.Bookmark
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false
	}
	return list, true
}

// Write replaces the user's snapshot with the given list.
func (s *Snapshots) Write(userID string, list []domain.Bookmark) error {
	if list == nil {
		list = []domain.Bookmark{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.path(userID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Remove deletes the user's snapshot. Missing files are not an error.
func (s *Snapshots) Remove(userID string) error {
	if err := os.Remove(s.path(userID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}
	return nil
}

// Prune deletes snapshot files untouched for longer than maxAge and
// returns how many were removed.
func (s *Snapshots) Prune(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "bookmarks_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}
