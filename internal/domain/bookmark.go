package domain

import (
	"strings"
	"time"
)

// Bookmark represents a single saved link owned by one user.
//
// It is NOT tied to redis, HTTP or any transport. The store, the cache
// and the sync layer all exchange this structure.
type Bookmark struct {
	// ID is the canonical unique identifier, assigned by the store on
	// insert. While an optimistic insert is in flight the sync layer uses
	// a temporary client-generated id instead (see IsTemporary).
	ID string `json:"id"`

	// Title is the user-supplied display label. Never empty on a
	// persisted record.
	Title string `json:"title"`

	// URL is the absolute URL, normalized with NormalizeURL before
	// storage or comparison.
	URL string `json:"url"`

	// UserID is the owning identity. Every query and mutation is scoped
	// by this field.
	UserID string `json:"user_id"`

	// CreatedAt is assigned by the store on insert. Optimistic inserts
	// carry a client-side placeholder until the store confirms.
	CreatedAt time.Time `json:"created_at"`
}

// TempIDPrefix marks client-generated placeholder ids used between an
// optimistic insert and its server confirmation.
const TempIDPrefix = "tmp-"

// IsTemporary reports whether the bookmark still carries a
// client-generated placeholder id.
func (b *Bookmark) IsTemporary() bool {
	return strings.HasPrefix(b.ID, TempIDPrefix)
}

// NormalizeURL trims the input and prefixes https:// when no http
// scheme is already present. Normalizing an already-prefixed URL is a
// no-op besides trimming.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	return "https://" + raw
}

// SameURL compares two already-normalized URLs case-insensitively.
func SameURL(a, b string) bool {
	return strings.EqualFold(a, b)
}
