package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/smartmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
)

const loginPage = `<!DOCTYPE html>
<html>
<head><title>SmartMark</title></head>
<body>
<h1>SmartMark</h1>
<p>The minimal bookmark manager. Store, sync, and access links anywhere.</p>
<a href="/auth/google/login">Continue with Google</a>
</body>
</html>
`

// Login renders the sign-in view. Authenticated visitors are sent
// straight to the dashboard.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := d.Sessions.Resolve(r); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(loginPage)); err != nil {
			d.Logger.Debug("failed to write login page", logger.Error(err))
		}
	}
}

type dashboardResponse struct {
	User      userInfo           `json:"user"`
	Bookmarks []bookmarkResponse `json:"bookmarks"`
	Total     int                `json:"total"`
	Degraded  bool               `json:"degraded"`
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Dashboard returns the authenticated view: the user's synchronized
// collection, newest first. On first visit this builds the live
// collection (snapshot paint, remote load, feed subscription).
func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity(w, r)
		if !ok {
			return
		}

		col, err := d.Collections.Collection(r.Context(), ident)
		if err != nil {
			// Degraded load: cached rows stay visible, flag it for the
			// client instead of failing the whole view.
			d.Logger.Warn("dashboard serving degraded collection",
				logger.String("user_id", ident.ID),
				logger.Error(err))
		}

		list := col.List()
		resp := dashboardResponse{
			User:      userInfo{ID: ident.ID, Email: ident.Email},
			Bookmarks: make([]bookmarkResponse, 0, len(list)),
			Total:     len(list),
			Degraded:  col.Degraded(),
		}
		for _, b := range list {
			resp.Bookmarks = append(resp.Bookmarks, toBookmarkResponse(b))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
