package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/utils"
)

// AllowOnlyCIDRS restricts a route to clients inside the allowed IPs/CIDRs.
// An empty list disables the check. Proxy headers are only honoured when
// trustProxy is set.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr, ok := utils.ClientAddr(r, trustProxy)
			if ok && m.Allow(addr.String()) {
				next.ServeHTTP(w, r)
				return
			}
			log.Debug("client IP rejected",
				logger.String("ip", addr.String()),
				logger.String("remote_addr", r.RemoteAddr),
				logger.String("path", r.URL.Path),
				logger.Bool("trust_proxy", trustProxy))
			forbidden(w)
		})
	}
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden"}` + "\n"))
}
