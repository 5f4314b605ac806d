package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/smartmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
	"github.com/MrSnakeDoc/smartmark/internal/transfer"
)

// ExportBookmarks downloads the collection as YAML.
func ExportBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity(w, r)
		if !ok {
			return
		}

		col, _ := d.Collections.Collection(r.Context(), ident)

		w.Header().Set("Content-Type", "application/yaml")
		w.Header().Set("Content-Disposition", `attachment; filename="bookmarks.yaml"`)
		if err := transfer.Export(col, w); err != nil {
			d.Logger.Error("export failed",
				logger.String("user_id", ident.ID),
				logger.Error(err))
		}
	}
}

// ImportBookmarks replays an uploaded YAML document through the add
// pipeline; duplicates and invalid entries are skipped and counted.
func ImportBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity(w, r)
		if !ok {
			return
		}

		col, _ := d.Collections.Collection(r.Context(), ident)
		report, err := transfer.Import(r.Context(), col, r.Body)
		if err != nil {
			d.Logger.Warn("import aborted",
				logger.String("user_id", ident.ID),
				logger.Error(err))
			writeError(w, http.StatusBadRequest, "import failed")
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}
