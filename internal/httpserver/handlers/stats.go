package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/metrics"
)

// recentLimit is how many records the dashboard feed shows.
const recentLimit = 10

// maxHeatmapDays bounds ?days= on the heatmap.
const maxHeatmapDays = 3660

type statsResponse struct {
	metrics.Summary
	Recent []metrics.DayGroup `json:"recent"`
}

// Stats returns the dashboard headline plus the recent feed grouped by day.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := d.Now()
		records := d.Store.Snapshot()

		recent := metrics.GroupByDay(records, recentLimit, now.Location())
		if recent == nil {
			recent = []metrics.DayGroup{}
		}
		writeJSON(w, http.StatusOK, statsResponse{
			Summary: metrics.Summarize(records, now),
			Recent:  recent,
		})
	}
}

type analyticsResponse struct {
	Total      int              `json:"total"`
	Difficulty []metrics.Bucket `json:"difficulty"`
	Platform   []metrics.Bucket `json:"platform"`
}

// Analytics returns the difficulty and platform distributions.
func Analytics(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := d.Store.Snapshot()
		writeJSON(w, http.StatusOK, analyticsResponse{
			Total:      len(records),
			Difficulty: metrics.DifficultyDistribution(records),
			Platform:   metrics.PlatformDistribution(records),
		})
	}
}

// Heatmap returns the activity calendar over ?days= (default from config).
func Heatmap(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := d.HeatmapDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "days must be an integer")
				return
			}
			if d.Validator != nil {
				if err := d.Validator.Var(n, "min=1,max="+strconv.Itoa(maxHeatmapDays)); err != nil {
					writeError(w, http.StatusBadRequest, "days must be between 1 and "+strconv.Itoa(maxHeatmapDays))
					return
				}
			}
			days = n
		}
		writeJSON(w, http.StatusOK, metrics.BuildHeatmap(d.Store.Snapshot(), d.Now(), days))
	}
}
