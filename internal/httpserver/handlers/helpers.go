package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/smartmark/internal/domain"
	"github.com/MrSnakeDoc/smartmark/internal/httpserver/mw"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// identity pulls the authenticated identity placed by the auth
// middleware. Routes registered behind RequireAuth always have it; a
// miss means a wiring bug, answered with a 401 rather than a panic.
func identity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := mw.Identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no authenticated identity")
	}
	return id, ok
}
