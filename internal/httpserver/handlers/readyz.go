package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz is ready once the store has loaded and the backend answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Store.LastReload().IsZero() {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Error: "store not loaded"})
			return
		}

		if d.Readiness != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Readiness.Ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Error: "backend unreachable"})
				return
			}
		}

		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
