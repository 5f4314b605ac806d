package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/smartmark/internal/sync"
	"github.com/MrSnakeDoc/smartmark/internal/utils"
)

// Document is the YAML interchange format for one user's collection.
type Document struct {
	Bookmarks []Entry `yaml:"bookmarks"`
}

// Entry is one exported bookmark. Ids and timestamps are deliberately
// omitted: an import replays entries through the normal add pipeline,
// which assigns fresh server ids.
type Entry struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// Report summarizes an import run.
type Report struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"` // duplicates and invalid entries
}

// Export writes the collection's current view state as YAML.
func Export(col *sync.Collection, w io.Writer) error {
	doc := Document{Bookmarks: []Entry{}}
	for _, b := range col.List() {
		doc.Bookmarks = append(doc.Bookmarks, Entry{Title: b.Title, URL: b.URL})
	}

	enc := yaml.NewEncoder(w)
	defer utils.Close(enc)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	return nil
}

// Import replays a YAML document through the full mutation pipeline:
// validation, normalization and the duplicate guard all apply, so
// re-importing an export is a no-op. Remote failures abort the run;
// everything already imported stays.
func Import(ctx context.Context, col *sync.Collection, r io.Reader) (Report, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Report{}, fmt.Errorf("failed to parse import document: %w", err)
	}

	var report Report
	for _, entry := range doc.Bookmarks {
		_, err := col.Add(ctx, entry.Title, entry.URL)
		switch {
		case err == nil:
			report.Imported++
		case errors.Is(err, sync.ErrDuplicateURL), errors.Is(err, sync.ErrEmptyFields):
			report.Skipped++
		default:
			return report, fmt.Errorf("import aborted at %q: %w", entry.URL, err)
		}
	}
	return report, nil
}
