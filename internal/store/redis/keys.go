package redis

const (
	// KeyPrefixUser is the prefix for all per-user keys
	KeyPrefixUser = "smartmark:user:"
	// KeyPrefixChanges is the prefix for per-user change-feed channels
	KeyPrefixChanges = "smartmark:changes:"
)

// BookmarkKey returns the Redis key for one bookmark row
func BookmarkKey(userID, id string) string {
	return KeyPrefixUser + userID + ":bookmark:" + id
}

// CollectionKey returns the Redis key for the per-user sorted set of
// bookmark ids, scored by creation time
func CollectionKey(userID string) string {
	return KeyPrefixUser + userID + ":bookmarks"
}

// ChangesChannel returns the pub/sub channel carrying one user's
// change-feed notifications
func ChangesChannel(userID string) string {
	return KeyPrefixChanges + userID
}
