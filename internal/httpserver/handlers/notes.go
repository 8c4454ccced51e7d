package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/tracker"
)

type noteRequest struct {
	Note string `json:"note" validate:"max=20000"`
}

// SetNote replaces a record's note. An empty note clears it.
func SetNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req noteRequest
		if err := decodeJSON(d, w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := d.Store.SetNote(r.Context(), chi.URLParam(r, "id"), req.Note); err != nil {
			storeFailed(d, w, tracker.OpNote, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// NoteHTML renders a record's note as sanitized HTML.
func NoteHTML(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := d.Store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "problem not found")
			return
		}

		out, err := d.Notes.Render(p.Note)
		if err != nil {
			d.Logger.Error("note rendering failed",
				logger.String("id", p.ID),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to render note")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out))
	}
}
