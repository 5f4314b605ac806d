package domain

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare host gets https prefix",
			input: "example.com",
			want:  "https://example.com",
		},
		{
			name:  "https kept as-is",
			input: "https://example.com",
			want:  "https://example.com",
		},
		{
			name:  "http kept as-is",
			input: "http://example.com",
			want:  "http://example.com",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  example.com  ",
			want:  "https://example.com",
		},
		{
			name:  "empty stays empty",
			input: "   ",
			want:  "",
		},
		{
			name:  "idempotent on already normalized",
			input: NormalizeURL("example.com"),
			want:  "https://example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.input); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSameURL(t *testing.T) {
	if !SameURL("https://Example.COM", "https://example.com") {
		t.Error("SameURL should compare case-insensitively")
	}
	if SameURL("https://example.com", "https://example.org") {
		t.Error("SameURL matched different hosts")
	}
}

func TestIsTemporary(t *testing.T) {
	tmp := &Bookmark{ID: TempIDPrefix + "abc"}
	if !tmp.IsTemporary() {
		t.Error("expected temporary id to be detected")
	}
	confirmed := &Bookmark{ID: "42"}
	if confirmed.IsTemporary() {
		t.Error("server id flagged as temporary")
	}
}

func TestChangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		change  Change
		wantErr bool
	}{
		{
			name:   "valid insert",
			change: Change{Kind: ChangeInsert, Bookmark: Bookmark{ID: "1"}},
		},
		{
			name:   "valid delete",
			change: Change{Kind: ChangeDelete, Bookmark: Bookmark{ID: "1"}},
		},
		{
			name:    "unknown kind",
			change:  Change{Kind: "truncate", Bookmark: Bookmark{ID: "1"}},
			wantErr: true,
		},
		{
			name:    "missing id",
			change:  Change{Kind: ChangeUpdate},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.change.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
