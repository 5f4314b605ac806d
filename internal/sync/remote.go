package sync

import (
	"context"

	"github.com/MrSnakeDoc/smartmark/internal/domain"
)

// Remote is the backend the collection synchronizes against. The
// redis store implements it; tests substitute a fake to exercise the
// optimistic pipeline without a backend.
type Remote interface {
	// Query returns all rows owned by userID, newest first.
	Query(ctx context.Context, userID string) ([]domain.Bookmark, error)

	// Insert stores a new row and returns the confirmed record with
	// the server-assigned id and timestamp.
	Insert(ctx context.Context, userID, title, url string) (domain.Bookmark, error)

	// Update replaces the editable fields of an existing row, scoped
	// by id and owner.
	Update(ctx context.Context, userID, id, title, url string) error

	// Delete removes a row, scoped by id and owner.
	Delete(ctx context.Context, userID, id string) error
}

// Feed delivers live row-change notifications filtered by owner.
type Feed interface {
	// Subscribe opens the feed for one owner. The returned teardown
	// must be called when the consumer goes away; it is safe to call
	// more than once.
	Subscribe(ctx context.Context, userID string) (<-chan domain.Change, func(), error)
}
