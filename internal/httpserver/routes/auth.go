package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/smartmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmark/internal/httpserver/handlers"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Get("/auth/google/login", handlers.GoogleLogin(d))
	r.Get("/auth/google/callback", handlers.GoogleCallback(d))
	r.Get("/auth/logout", handlers.Logout(d))
}
