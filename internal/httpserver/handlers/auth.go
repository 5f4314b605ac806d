package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/smartmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
)

// GoogleLogin starts the identity-provider round trip.
func GoogleLogin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, d.OAuth.LoginURL(w), http.StatusTemporaryRedirect)
	}
}

// GoogleCallback completes the round trip: exchanges the code,
// resolves the identity and issues the session cookie.
func GoogleCallback(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := d.OAuth.Exchange(r.Context(), r)
		if err != nil {
			d.Logger.Warn("oauth callback rejected", logger.Error(err))
			http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
			return
		}

		if err := d.Sessions.Issue(w, ident); err != nil {
			d.Logger.Error("failed to issue session", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to start session")
			return
		}

		d.Logger.Info("user signed in", logger.String("user_id", ident.ID))
		http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
	}
}

// Logout clears the session and tears down the user's live collection
// (feed subscription included). The local snapshot stays for the next
// session's instant paint.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ident, err := d.Sessions.Resolve(r); err == nil {
			d.Collections.Evict(ident.ID)
			d.Logger.Info("user signed out", logger.String("user_id", ident.ID))
		}
		d.Sessions.Clear(w)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
	}
}
