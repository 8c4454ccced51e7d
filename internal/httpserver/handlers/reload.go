package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/logger"
)

type reloadResponse struct {
	Status   string `json:"status"`
	Problems int    `json:"problems"`
}

// Reload queues a reload of the store from its backend. The trigger channel
// holds one pending request; a second one while it is queued gets 429.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual store reload queued",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, reloadResponse{
				Status:   "✅ reload triggered",
				Problems: d.Store.Len(),
			})
		default:
			d.Logger.Warn("store reload already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeError(w, http.StatusTooManyRequests, "⏳ reload already pending, please wait")
		}
	}
}
