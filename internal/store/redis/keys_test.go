package redis

import "testing"

func TestKeys(t *testing.T) {
	if got := BookmarkKey("u1", "42"); got != "smartmark:user:u1:bookmark:42" {
		t.Errorf("BookmarkKey() = %q", got)
	}
	if got := CollectionKey("u1"); got != "smartmark:user:u1:bookmarks" {
		t.Errorf("CollectionKey() = %q", got)
	}
	if got := ChangesChannel("u1"); got != "smartmark:changes:u1" {
		t.Errorf("ChangesChannel() = %q", got)
	}
}

func TestKeysAreOwnerScoped(t *testing.T) {
	if BookmarkKey("u1", "42") == BookmarkKey("u2", "42") {
		t.Error("bookmark keys for different owners must differ")
	}
	if ChangesChannel("u1") == ChangesChannel("u2") {
		t.Error("change channels for different owners must differ")
	}
}
