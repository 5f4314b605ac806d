package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/smartmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmark/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/smartmark/internal/httpserver/mw"
)

func init() { Register(registerViews) }

func registerViews(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Login(d))
	r.With(mw.RequireAuth(d.Sessions)).Get("/dashboard", handlers.Dashboard(d))
}
