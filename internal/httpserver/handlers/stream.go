package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/smartmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
)

// StreamBookmarks exposes the owner-filtered change feed as
// server-sent events, one event per row change:
//
//	event: insert|update|delete
//	data: {"id":...,"title":...,"url":...}
//
// The subscription is torn down when the client disconnects.
func StreamBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity(w, r)
		if !ok {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		changes, teardown, err := d.Store.Subscribe(r.Context(), ident.ID)
		if err != nil {
			d.Logger.Error("failed to open change feed",
				logger.String("user_id", ident.ID),
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "change feed unavailable")
			return
		}
		defer teardown()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case change, open := <-changes:
				if !open {
					return
				}
				payload, err := json.Marshal(toBookmarkResponse(change.Bookmark))
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Kind, payload); err != nil {
					return
				}
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}
}
