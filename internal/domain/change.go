package domain

import "fmt"

// ChangeKind discriminates live change-feed notifications.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// Change is one row-level notification from the live feed. The payload
// is always a full Bookmark; for deletes only ID (and UserID) are
// meaningful.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	Bookmark Bookmark   `json:"bookmark"`
}

// Validate rejects notifications with an unknown discriminator or a
// missing record id before they reach collection state.
func (c *Change) Validate() error {
	switch c.Kind {
	case ChangeInsert, ChangeUpdate, ChangeDelete:
	default:
		return fmt.Errorf("unknown change kind: %q", c.Kind)
	}
	if c.Bookmark.ID == "" {
		return fmt.Errorf("change %s without bookmark id", c.Kind)
	}
	return nil
}
