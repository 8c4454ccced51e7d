package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	ProblemsLoaded *int   `json:"problems_loaded,omitempty"`
	LastReload     string `json:"last_reload,omitempty"`
	Mode           string `json:"mode,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Store.Len()
		lastReload := d.Store.LastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"store": {
				OK:             !lastReload.IsZero(),
				ProblemsLoaded: &count,
				LastReload:     lastReloadStr,
			},
			"backend": checkBackend(r.Context(), d),
			"fetcher": checkFetcher(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     determineStatus(components),
			Components: components,
		})
	}
}

func determineStatus(components map[string]componentStatus) string {
	if store, exists := components["store"]; exists && !store.OK {
		return "critical" // nothing loaded yet
	}
	if backend, exists := components["backend"]; exists && !backend.OK {
		return "critical" // writes will fail
	}
	if fetcher, exists := components["fetcher"]; exists && !fetcher.OK {
		return "degraded" // tracking still works with posted HTML
	}
	return "operational"
}

func checkBackend(ctx context.Context, d deps.Deps) componentStatus {
	if d.Readiness == nil {
		return componentStatus{OK: true, Mode: d.Backend}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Readiness.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.Backend,
			Impact: "writes-failing",
			Error:  "unreachable",
		}
	}
	return componentStatus{OK: true, Mode: d.Backend}
}

func checkFetcher(d deps.Deps) componentStatus {
	if d.Fetcher == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	state := d.Fetcher.State()
	if state == "open" {
		return componentStatus{
			OK:     false,
			Mode:   state,
			Impact: "server-side-fetch-disabled",
		}
	}
	return componentStatus{OK: true, Mode: state}
}
