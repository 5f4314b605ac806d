package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/smartmark/internal/domain"
	"github.com/MrSnakeDoc/smartmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmark/internal/sync"
)

type bookmarkResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	Pending   bool   `json:"pending,omitempty"` // optimistic, awaiting confirmation
}

func toBookmarkResponse(b domain.Bookmark) bookmarkResponse {
	return bookmarkResponse{
		ID:        b.ID,
		Title:     b.Title,
		URL:       b.URL,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		Pending:   b.IsTemporary(),
	}
}

type bookmarkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ListBookmarks returns the user's collection, newest first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity(w, r)
		if !ok {
			return
		}

		col, _ := d.Collections.Collection(r.Context(), ident)
		list := col.List()

		out := make([]bookmarkResponse, 0, len(list))
		for _, b := range list {
			out = append(out, toBookmarkResponse(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// AddBookmark runs the optimistic insert pipeline and returns the
// server-confirmed record.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity(w, r)
		if !ok {
			return
		}

		var req bookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		col, _ := d.Collections.Collection(r.Context(), ident)
		confirmed, err := col.Add(r.Context(), req.Title, req.URL)
		if err != nil {
			writeMutationError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBookmarkResponse(confirmed))
	}
}

// UpdateBookmark runs the optimistic edit pipeline for one record.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity(w, r)
		if !ok {
			return
		}

		var req bookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id := chi.URLParam(r, "id")
		col, _ := d.Collections.Collection(r.Context(), ident)
		if _, err := col.BeginEdit(id); err != nil {
			writeMutationError(w, err)
			return
		}
		if err := col.ConfirmEdit(r.Context(), id, req.Title, req.URL); err != nil {
			writeMutationError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteBookmark runs the optimistic delete pipeline for one record.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity(w, r)
		if !ok {
			return
		}

		col, _ := d.Collections.Collection(r.Context(), ident)
		if err := col.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeMutationError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sync.ErrEmptyFields):
		writeError(w, http.StatusBadRequest, "title and url are required")
	case errors.Is(err, sync.ErrDuplicateURL):
		writeError(w, http.StatusConflict, "you've already saved this link")
	case errors.Is(err, sync.ErrNotFound):
		writeError(w, http.StatusNotFound, "bookmark not found")
	default:
		writeError(w, http.StatusBadGateway, "failed to sync with database")
	}
}
