package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/solvelog/internal/extract"
	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/notes"
	"github.com/MrSnakeDoc/solvelog/internal/observability"
	"github.com/MrSnakeDoc/solvelog/internal/tracker"
)

// PageFetcher downloads and parses a judge page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*extract.Page, error)
	State() string
}

// Pinger reports whether the persistence backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time                // for testing, defaults to time.Now
	AllowedHosts  []string                        // Host headers allowed to access the server
	AllowedCIDRS  []string                        // IPs allowed to access ops endpoints
	TrustProxy    bool                            // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Store         *tracker.Store                  // Problem collection
	Backend       string                          // Backend kind, for /infra
	Readiness     Pinger                          // nil when the backend has nothing to ping
	Fetcher       PageFetcher                     // nil disables server-side fetching
	Notes         *notes.Renderer                 // Markdown renderer for notes
	Metrics       *observability.Collector        // nil disables /metrics
	Validator     *validator.Validate             // Request payload validation
	Location      *time.Location                  // Calendar-day boundaries for stats
	HeatmapDays   int                             // Default heatmap window
	ReloadTrigger chan struct{}                   // Channel to trigger manual store reload
	WriteLimit    func(http.Handler) http.Handler // Shared rate limiter for mutating routes, nil = none
}

// Now returns the current time in the configured location.
func (d Deps) Now() time.Time {
	now := time.Now
	if d.TimeNow != nil {
		now = d.TimeNow
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}
