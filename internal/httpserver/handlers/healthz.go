package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type healthzResponse struct {
	Status        string    `json:"status"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Backend       string    `json:"backend,omitempty"`
	Problems      int       `json:"problems"`
	Build         buildInfo `json:"build"`
}

// Healthz is the liveness probe. It never touches the backend; see Readyz.
func Healthz(d deps.Deps) http.HandlerFunc {
	build := buildInfo{
		Version:   d.Version,
		Commit:    d.Commit,
		BuildDate: d.BuildDate,
		GoVersion: d.GoVersion,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthzResponse{
			Status:        "ok",
			UptimeSeconds: d.Now().Sub(d.StartTime).Seconds(),
			Backend:       d.Backend,
			Build:         build,
		}
		if d.Store != nil {
			resp.Problems = d.Store.Len()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
