package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver/mw"
)

func init() { Register("transfer", registerTransfer) }

func registerTransfer(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Get("/api/export", handlers.Export(d))
	api.With(writeLimit(d)...).Post("/api/import", handlers.Import(d))
}
