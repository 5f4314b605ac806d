package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/smartmark/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Redis string `json:"redis"`
}

// Readyz reports readiness. The store is the single hard dependency:
// without redis there is no authoritative data and no change feed.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := readyzResponse{Ready: true, Redis: "ok"}
		status := http.StatusOK
		if d.RedisClient == nil || d.RedisClient.Ping(ctx).Err() != nil {
			resp.Ready = false
			resp.Redis = "unreachable"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, resp)
	}
}
