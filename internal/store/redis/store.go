package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/smartmark/internal/domain"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
)

// ErrNotFound is returned when a mutation targets a row that does not
// exist under the given owner.
var ErrNotFound = errors.New("bookmark not found")

// Store is the authoritative bookmark store. Rows live as JSON blobs
// under owner-scoped keys with a per-user sorted set (scored by
// creation time) keeping the newest-first ordering. Every mutation
// publishes a change notification on the owner's feed channel, so keys
// and channels share the owner scoping and cross-tenant access is
// impossible by construction.
type Store struct {
	client *redis.Client
	logger logger.Logger
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log,
	}
}

// Query retrieves all bookmarks owned by userID, newest first.
func (s *Store) Query(ctx context.Context, userID string) ([]domain.Bookmark, error) {
	ids, err := s.client.ZRevRange(ctx, CollectionKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmark ids: %w", err)
	}

	if len(ids) == 0 {
		return []domain.Bookmark{}, nil
	}

	bookmarks := make([]domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		bookmark, err := s.get(ctx, userID, id)
		if err != nil {
			// Skip rows that couldn't be retrieved
			continue
		}
		bookmarks = append(bookmarks, *bookmark)
	}

	return bookmarks, nil
}

func (s *Store) get(ctx context.Context, userID, id string) (*domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(userID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var bookmark domain.Bookmark
	if err := json.Unmarshal(data, &bookmark); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}

	return &bookmark, nil
}

// Insert stores a new row for userID. The store assigns the id and the
// creation timestamp; the confirmed row is returned for
// reconciliation with any optimistic placeholder the caller holds.
func (s *Store) Insert(ctx context.Context, userID, title, url string) (domain.Bookmark, error) {
	bookmark := domain.Bookmark{
		ID:        uuid.NewString(),
		Title:     title,
		URL:       url,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.save(ctx, &bookmark); err != nil {
		return domain.Bookmark{}, err
	}

	s.publish(ctx, userID, domain.Change{Kind: domain.ChangeInsert, Bookmark: bookmark})
	return bookmark, nil
}

// Update replaces the editable fields of an existing row. It fails
// with ErrNotFound when no such row exists under this owner.
func (s *Store) Update(ctx context.Context, userID, id, title, url string) error {
	bookmark, err := s.get(ctx, userID, id)
	if err != nil {
		return err
	}

	bookmark.Title = title
	bookmark.URL = url

	data, err := json.Marshal(bookmark)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}
	if err := s.client.Set(ctx, BookmarkKey(userID, id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}

	s.publish(ctx, userID, domain.Change{Kind: domain.ChangeUpdate, Bookmark: *bookmark})
	return nil
}

// Delete removes a row. It fails with ErrNotFound when no such row
// exists under this owner.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	removed, err := s.client.ZRem(ctx, CollectionKey(userID), id).Result()
	if err != nil {
		return fmt.Errorf("failed to remove bookmark from collection: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.client.Del(ctx, BookmarkKey(userID, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	s.publish(ctx, userID, domain.Change{
		Kind:     domain.ChangeDelete,
		Bookmark: domain.Bookmark{ID: id, UserID: userID},
	})
	return nil
}

func (s *Store) save(ctx context.Context, bookmark *domain.Bookmark) error {
	data, err := json.Marshal(bookmark)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, BookmarkKey(bookmark.UserID, bookmark.ID), data, 0)
	pipe.ZAdd(ctx, CollectionKey(bookmark.UserID), redis.Z{
		Score:  float64(bookmark.CreatedAt.UnixNano()),
		Member: bookmark.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

// publish sends a change notification to the owner's feed channel.
// Best effort: the row mutation already succeeded, a lost notification
// only delays other sessions until their next full load.
func (s *Store) publish(ctx context.Context, userID string, change domain.Change) {
	data, err := json.Marshal(change)
	if err != nil {
		s.logger.Warn("failed to marshal change notification", logger.Error(err))
		return
	}
	if err := s.client.Publish(ctx, ChangesChannel(userID), data).Err(); err != nil {
		s.logger.Warn("failed to publish change notification",
			logger.String("kind", string(change.Kind)),
			logger.Error(err))
	}
}
