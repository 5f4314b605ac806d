package transfer

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/smartmark/internal/cache"
	"github.com/MrSnakeDoc/smartmark/internal/domain"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
	"github.com/MrSnakeDoc/smartmark/internal/sync"
)

type memoryRemote struct {
	rows   []domain.Bookmark
	nextID int
}

func (m *memoryRemote) Query(context.Context, string) ([]domain.Bookmark, error) {
	return append([]domain.Bookmark{}, m.rows...), nil
}

func (m *memoryRemote) Insert(_ context.Context, userID, title, url string) (domain.Bookmark, error) {
	m.nextID++
	row := domain.Bookmark{ID: strconv.Itoa(m.nextID), Title: title, URL: url, UserID: userID}
	m.rows = append([]domain.Bookmark{row}, m.rows...)
	return row, nil
}

func (m *memoryRemote) Update(context.Context, string, string, string, string) error { return nil }
func (m *memoryRemote) Delete(context.Context, string, string) error                 { return nil }

func newCollection(t *testing.T) *sync.Collection {
	t.Helper()
	snaps, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("cache.New() failed: %v", err)
	}
	return sync.NewCollection(
		domain.Identity{ID: "u1"},
		&memoryRemote{},
		snaps,
		logger.New("error", false),
		nil,
	)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newCollection(t)
	for _, u := range []string{"one.example", "two.example"} {
		if _, err := src.Add(context.Background(), "Title "+u, u); err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := Export(src, &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	dst := newCollection(t)
	report, err := Import(context.Background(), dst, &buf)
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if report.Imported != 2 || report.Skipped != 0 {
		t.Errorf("Import() report = %+v, want 2 imported", report)
	}
	if len(dst.List()) != 2 {
		t.Errorf("destination has %d rows, want 2", len(dst.List()))
	}
}

func TestImportSkipsDuplicatesAndInvalid(t *testing.T) {
	col := newCollection(t)
	if _, err := col.Add(context.Background(), "Existing", "one.example"); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	doc := `bookmarks:
  - title: Duplicate
    url: https://one.example
  - title: ""
    url: missing-title.example
  - title: Fresh
    url: fresh.example
`
	report, err := Import(context.Background(), col, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if report.Imported != 1 || report.Skipped != 2 {
		t.Errorf("Import() report = %+v, want 1 imported / 2 skipped", report)
	}
}

func TestImportRejectsMalformedYAML(t *testing.T) {
	col := newCollection(t)
	if _, err := Import(context.Background(), col, strings.NewReader(":\n  - not yaml")); err == nil {
		t.Error("Import() accepted malformed YAML")
	}
}

func TestExportEmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(newCollection(t), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "bookmarks: []") {
		t.Errorf("empty export = %q, want explicit empty list", buf.String())
	}
}
