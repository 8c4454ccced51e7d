package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver/mw"
)

func init() { Register("ops", registerOps) }

// Probes, status and reload are only reachable from the allowed CIDRs.
// Reload also checks the Host header since it mutates state.
func registerOps(r chi.Router, d deps.Deps) {
	ops := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	ops.Get("/healthz", handlers.Healthz(d))
	ops.Get("/readyz", handlers.Readyz(d))
	ops.Get("/infra", handlers.Infra(d))
	if d.Metrics != nil {
		ops.Method("GET", "/metrics", d.Metrics.Handler())
	}
	ops.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/reload", handlers.Reload(d))
}
