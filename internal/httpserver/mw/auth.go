package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/smartmark/internal/auth"
	"github.com/MrSnakeDoc/smartmark/internal/domain"
)

type ctxKey int

const identityKey ctxKey = 0

// Identity returns the authenticated identity stored by RequireAuth.
func Identity(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

// RequireAuth resolves the session cookie and stores the identity in
// the request context. Browsers without a session are redirected to
// the login view; API calls get a plain 401.
func RequireAuth(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := sessions.Resolve(r)
			if err != nil {
				if isAPIRequest(r) {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
				} else {
					http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
				}
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
