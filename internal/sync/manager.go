package sync

import (
	"context"
	stdsync "sync"

	"github.com/MrSnakeDoc/smartmark/internal/cache"
	"github.com/MrSnakeDoc/smartmark/internal/domain"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
)

// Manager owns the live collections, one per authenticated identity.
// A collection is built lazily on first access: snapshot presented,
// remote loaded, feed subscription opened. It stays alive (and keeps
// applying feed changes) until Evict or Close.
type Manager struct {
	remote    Remote
	feed      Feed
	snapshots *cache.Snapshots
	logger    logger.Logger

	mu          stdsync.Mutex
	collections map[string]*Collection
}

func NewManager(remote Remote, feed Feed, snapshots *cache.Snapshots, log logger.Logger) *Manager {
	return &Manager{
		remote:      remote,
		feed:        feed,
		snapshots:   snapshots,
		logger:      log,
		collections: make(map[string]*Collection),
	}
}

// Collection returns the live collection for the identity, creating
// and loading it on first use. A degraded load (remote unreachable,
// cached data shown) still yields a usable collection; the error is
// returned alongside so callers can surface it.
func (m *Manager) Collection(ctx context.Context, owner domain.Identity) (*Collection, error) {
	m.mu.Lock()
	if col, ok := m.collections[owner.ID]; ok {
		m.mu.Unlock()
		return col, nil
	}

	col := NewCollection(owner, m.remote, m.snapshots, m.logger, nil)
	m.collections[owner.ID] = col
	m.mu.Unlock()

	loadErr := col.Load(ctx)

	// The subscription outlives the triggering request.
	if err := col.Run(context.WithoutCancel(ctx), m.feed); err != nil {
		m.logger.Warn("failed to open change feed",
			logger.String("user_id", owner.ID),
			logger.Error(err))
	}

	return col, loadErr
}

// Evict closes and forgets the identity's collection, tearing down its
// feed subscription. The local snapshot file stays: it is the instant
// first paint for the next session.
func (m *Manager) Evict(userID string) {
	m.mu.Lock()
	col, ok := m.collections[userID]
	delete(m.collections, userID)
	m.mu.Unlock()
	if ok {
		col.Close()
	}
}

// Close tears down every live collection.
func (m *Manager) Close() {
	m.mu.Lock()
	cols := make([]*Collection, 0, len(m.collections))
	for _, col := range m.collections {
		cols = append(cols, col)
	}
	m.collections = make(map[string]*Collection)
	m.mu.Unlock()

	for _, col := range cols {
		col.Close()
	}
}
