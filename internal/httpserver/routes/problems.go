package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver/mw"
)

func init() { Register("problems", registerProblems) }

func registerProblems(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	writes := api.With(writeLimit(d)...)

	api.Get("/api/problems", handlers.ListProblems(d))
	api.Get("/api/problems/{id}", handlers.GetProblem(d))
	api.Get("/api/problems/{id}/note.html", handlers.NoteHTML(d))

	writes.Post("/api/problems", handlers.TrackProblem(d))
	writes.Delete("/api/problems", handlers.ClearProblems(d))
	writes.Delete("/api/problems/{id}", handlers.DeleteProblem(d))
	writes.Put("/api/problems/{id}/note", handlers.SetNote(d))
}

func writeLimit(d deps.Deps) []Middleware {
	if d.WriteLimit == nil {
		return nil
	}
	return []Middleware{d.WriteLimit}
}
