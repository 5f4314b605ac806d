package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/smartmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmark/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/smartmark/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	authed := r.With(mw.RequireAuth(d.Sessions))

	authed.Get("/api/bookmarks", handlers.ListBookmarks(d))
	authed.Get("/api/bookmarks/stream", handlers.StreamBookmarks(d))
	authed.Get("/api/bookmarks/export", handlers.ExportBookmarks(d))

	throttled := authed.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:         d.MutationBurst,
		RefillPerMin:  d.MutationPerMinute,
		MaxEntries:    10_000,
		SweepInterval: time.Minute,
		IdleTTL:       15 * time.Minute,
		TrustProxy:    d.TrustProxy,
	}))

	throttled.Post("/api/bookmarks", handlers.AddBookmark(d))
	throttled.Put("/api/bookmarks/{id}", handlers.UpdateBookmark(d))
	throttled.Delete("/api/bookmarks/{id}", handlers.DeleteBookmark(d))
	throttled.Post("/api/bookmarks/import", handlers.ImportBookmarks(d))
}
