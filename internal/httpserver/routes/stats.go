package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver/mw"
)

func init() { Register("stats", registerStats) }

func registerStats(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Get("/api/stats", handlers.Stats(d))
	api.Get("/api/analytics", handlers.Analytics(d))
	api.Get("/api/heatmap", handlers.Heatmap(d))
}
