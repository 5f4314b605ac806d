package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	stdsync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/smartmark/internal/cache"
	"github.com/MrSnakeDoc/smartmark/internal/domain"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
)

var (
	// ErrEmptyFields rejects a mutation with a missing title or url.
	ErrEmptyFields = errors.New("title and url are required")

	// ErrDuplicateURL rejects an add whose normalized url is already
	// present in the collection.
	ErrDuplicateURL = errors.New("url already saved")

	// ErrNotFound rejects a mutation targeting a record that is no
	// longer in the collection.
	ErrNotFound = errors.New("bookmark not found")

	// ErrAlreadySubscribed guards the one-subscription invariant.
	ErrAlreadySubscribed = errors.New("change feed already subscribed")
)

// EditBuffer holds the transient per-record edit state: the editable
// fields captured when the user entered edit mode.
type EditBuffer struct {
	Title string
	URL   string
}

// Collection is one user's synchronized bookmark list: the in-memory
// view state, the local snapshot cache and the remote store, kept
// consistent through optimistic mutations with full-list rollback and
// a live change feed.
//
// All exported methods are safe for concurrent use; mutations hold the
// lock only around state transitions, never across remote calls.
type Collection struct {
	owner     domain.Identity
	remote    Remote
	snapshots *cache.Snapshots
	logger    logger.Logger
	notifier  Notifier

	mu       stdsync.Mutex
	list     []domain.Bookmark
	degraded bool                  // last refresh failed, view shows cached data
	pending  map[string]string     // normalized lowercase url -> temp id, in-flight optimistic inserts
	editing  map[string]EditBuffer // record id -> captured edit fields

	unsubscribe func()
}

// NewCollection creates the collection state for one identity. A nil
// notifier falls back to the structured log.
func NewCollection(owner domain.Identity, remote Remote, snapshots *cache.Snapshots, log logger.Logger, notifier Notifier) *Collection {
	if notifier == nil {
		notifier = LogNotifier(log)
	}
	return &Collection{
		owner:     owner,
		remote:    remote,
		snapshots: snapshots,
		logger:    log,
		notifier:  notifier,
		pending:   make(map[string]string),
		editing:   make(map[string]EditBuffer),
	}
}

// Owner returns the identity this collection is scoped to.
func (c *Collection) Owner() domain.Identity { return c.owner }

// Load populates the view cache-then-network: the local snapshot is
// presented immediately (best effort, may be stale or absent), then
// the authoritative remote result replaces it and overwrites the
// snapshot. On remote failure the cached state stays visible, the
// collection is flagged degraded, a warning notice fires and the error
// is returned so callers can offer a retry.
func (c *Collection) Load(ctx context.Context) error {
	if cached, ok := c.snapshots.Read(c.owner.ID); ok {
		c.mu.Lock()
		c.list = cached
		c.mu.Unlock()
	}

	rows, err := c.remote.Query(ctx, c.owner.ID)
	if err != nil {
		c.mu.Lock()
		c.degraded = true
		c.mu.Unlock()
		c.notifier.Notify(NoticeWarn, "Showing cached bookmarks, refresh failed")
		return fmt.Errorf("failed to load bookmarks: %w", err)
	}

	c.mu.Lock()
	c.list = rows
	c.degraded = false
	c.persistLocked()
	c.mu.Unlock()
	return nil
}

// List returns a copy of the current view state, newest first.
func (c *Collection) List() []domain.Bookmark {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Bookmark, len(c.list))
	copy(out, c.list)
	return out
}

// Degraded reports whether the view currently shows cached data
// because the last refresh failed.
func (c *Collection) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// Add runs the optimistic insert pipeline: validate, normalize,
// duplicate guard, optimistic prepend with a temporary id, remote
// insert, then reconciliation (placeholder promoted to the confirmed
// record) or full-list rollback.
func (c *Collection) Add(ctx context.Context, title, url string) (domain.Bookmark, error) {
	title = strings.TrimSpace(title)
	normalized := domain.NormalizeURL(url)
	if title == "" || normalized == "" {
		c.notifier.Notify(NoticeError, "Please fill in all fields")
		return domain.Bookmark{}, ErrEmptyFields
	}

	c.mu.Lock()
	for i := range c.list {
		if domain.SameURL(c.list[i].URL, normalized) {
			c.mu.Unlock()
			c.notifier.Notify(NoticeError, "You've already saved this link!")
			return domain.Bookmark{}, ErrDuplicateURL
		}
	}

	snapshot := c.cloneLocked()
	temp := domain.Bookmark{
		ID:        domain.TempIDPrefix + uuid.NewString(),
		Title:     title,
		URL:       normalized,
		UserID:    c.owner.ID,
		CreatedAt: time.Now().UTC(),
	}
	c.list = append([]domain.Bookmark{temp}, c.list...)
	c.pending[strings.ToLower(normalized)] = temp.ID
	c.persistLocked()
	c.mu.Unlock()

	confirmed, err := c.remote.Insert(ctx, c.owner.ID, title, normalized)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, strings.ToLower(normalized))

	if err != nil {
		c.list = snapshot
		c.persistLocked()
		c.notifier.Notify(NoticeError, "Failed to sync with database")
		return domain.Bookmark{}, fmt.Errorf("failed to add bookmark: %w", err)
	}

	promoted := false
	for i := range c.list {
		if c.list[i].ID == temp.ID {
			c.list[i] = confirmed
			promoted = true
			break
		}
	}
	if !promoted && !c.hasLocked(confirmed.ID) {
		// The placeholder is gone (e.g. swallowed by a rollback of a
		// concurrent mutation); keep the confirmed row visible anyway.
		c.list = append([]domain.Bookmark{confirmed}, c.list...)
	}
	c.persistLocked()
	c.notifier.Notify(NoticeInfo, "Saved!")
	return confirmed, nil
}

// BeginEdit enters edit mode for one record, capturing its current
// fields into the edit buffer.
func (c *Collection) BeginEdit(id string) (EditBuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.list {
		if c.list[i].ID == id {
			buf := EditBuffer{Title: c.list[i].Title, URL: c.list[i].URL}
			c.editing[id] = buf
			return buf, nil
		}
	}
	return EditBuffer{}, ErrNotFound
}

// CancelEdit leaves edit mode without mutating anything.
func (c *Collection) CancelEdit(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.editing, id)
}

// Editing reports whether the record is currently in edit mode.
func (c *Collection) Editing(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.editing[id]
	return ok
}

// ConfirmEdit runs the optimistic update pipeline for one record. If
// the record vanished while editing (a concurrent session deleted it)
// the edit aborts before any remote call. On remote failure the record
// stays in edit mode with the rolled-back fields visible; edit mode is
// left only on success.
func (c *Collection) ConfirmEdit(ctx context.Context, id, title, url string) error {
	title = strings.TrimSpace(title)
	normalized := domain.NormalizeURL(url)
	if title == "" || normalized == "" {
		c.notifier.Notify(NoticeError, "Please fill in all fields")
		return ErrEmptyFields
	}

	c.mu.Lock()
	if !c.hasLocked(id) {
		delete(c.editing, id)
		c.mu.Unlock()
		c.notifier.Notify(NoticeError, "This bookmark no longer exists")
		return ErrNotFound
	}

	snapshot := c.cloneLocked()
	for i := range c.list {
		if c.list[i].ID == id {
			c.list[i].Title = title
			c.list[i].URL = normalized
			break
		}
	}
	c.persistLocked()
	c.mu.Unlock()

	err := c.remote.Update(ctx, c.owner.ID, id, title, normalized)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.list = snapshot
		c.persistLocked()
		c.notifier.Notify(NoticeError, "Failed to update")
		return fmt.Errorf("failed to update bookmark: %w", err)
	}

	delete(c.editing, id)
	c.persistLocked()
	c.notifier.Notify(NoticeInfo, "Updated!")
	return nil
}

// Delete runs the optimistic delete pipeline. On remote failure the
// full pre-mutation snapshot is restored, so the entry reappears in
// its original position.
func (c *Collection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if !c.hasLocked(id) {
		c.mu.Unlock()
		return ErrNotFound
	}

	snapshot := c.cloneLocked()
	kept := c.list[:0:0]
	for i := range c.list {
		if c.list[i].ID != id {
			kept = append(kept, c.list[i])
		}
	}
	c.list = kept
	c.persistLocked()
	c.mu.Unlock()

	err := c.remote.Delete(ctx, c.owner.ID, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.list = snapshot
		c.persistLocked()
		c.notifier.Notify(NoticeError, "Could not delete")
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	c.persistLocked()
	c.notifier.Notify(NoticeInfo, "Removed")
	return nil
}

// Apply folds one live change-feed notification into the view state.
// Inserts are deduped by id and, for in-flight optimistic inserts
// whose temporary id cannot match, by pending normalized url (the
// self-echo case). Every branch persists the snapshot.
func (c *Collection) Apply(change domain.Change) {
	if err := change.Validate(); err != nil {
		c.logger.Warn("ignoring invalid change", logger.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch change.Kind {
	case domain.ChangeInsert:
		if c.hasLocked(change.Bookmark.ID) {
			return
		}
		if _, inFlight := c.pending[strings.ToLower(change.Bookmark.URL)]; inFlight {
			// Self-echo of an optimistic insert that is still awaiting
			// confirmation; reconciliation will place the row.
			return
		}
		c.list = append([]domain.Bookmark{change.Bookmark}, c.list...)

	case domain.ChangeUpdate:
		for i := range c.list {
			if c.list[i].ID == change.Bookmark.ID {
				c.list[i] = change.Bookmark
				break
			}
		}

	case domain.ChangeDelete:
		kept := c.list[:0:0]
		for i := range c.list {
			if c.list[i].ID != change.Bookmark.ID {
				kept = append(kept, c.list[i])
			}
		}
		c.list = kept
	}

	c.persistLocked()
}

// Run opens the live subscription and applies notifications until the
// context is canceled or Close is called. At most one subscription may
// exist per collection.
func (c *Collection) Run(ctx context.Context, feed Feed) error {
	c.mu.Lock()
	if c.unsubscribe != nil {
		c.mu.Unlock()
		return ErrAlreadySubscribed
	}
	c.mu.Unlock()

	changes, teardown, err := feed.Subscribe(ctx, c.owner.ID)
	if err != nil {
		return fmt.Errorf("failed to open change feed: %w", err)
	}

	c.mu.Lock()
	c.unsubscribe = teardown
	c.mu.Unlock()

	go func() {
		defer teardown()
		for {
			select {
			case change, ok := <-changes:
				if !ok {
					return
				}
				c.Apply(change)
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Close tears down the live subscription. Safe to call regardless of
// whether Run ever succeeded, and more than once.
func (c *Collection) Close() {
	c.mu.Lock()
	teardown := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if teardown != nil {
		teardown()
	}
}

// callers must hold c.mu
func (c *Collection) hasLocked(id string) bool {
	for i := range c.list {
		if c.list[i].ID == id {
			return true
		}
	}
	return false
}

// callers must hold c.mu
func (c *Collection) cloneLocked() []domain.Bookmark {
	out := make([]domain.Bookmark, len(c.list))
	copy(out, c.list)
	return out
}

// callers must hold c.mu
func (c *Collection) persistLocked() {
	if err := c.snapshots.Write(c.owner.ID, c.list); err != nil {
		c.logger.Warn("failed to persist snapshot",
			logger.String("user_id", c.owner.ID),
			logger.Error(err))
	}
}
