package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
	"github.com/MrSnakeDoc/solvelog/internal/extract"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/tracker"
)

// problemView is a record plus its CodeForces rating band, when it has one.
type problemView struct {
	domain.Problem
	Tier *domain.Tier `json:"tier,omitempty"`
}

type listResponse struct {
	Count    int           `json:"count"`
	Problems []problemView `json:"problems"`
}

func viewOf(p domain.Problem) problemView {
	v := problemView{Problem: p}
	if tier, ok := domain.RatingTier(p.Difficulty, p.Platform); ok {
		v.Tier = &tier
	}
	return v
}

// ListProblems returns the collection newest first, filtered by ?q=.
// ?platform=1 also matches the platform label.
func ListProblems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includePlatform, _ := strconv.ParseBool(r.URL.Query().Get("platform"))
		found := domain.Filter(d.Store.Snapshot(), r.URL.Query().Get("q"), domain.FilterOptions{
			IncludePlatform: includePlatform,
		})

		views := make([]problemView, 0, len(found))
		for _, p := range found {
			views = append(views, viewOf(p))
		}
		writeJSON(w, http.StatusOK, listResponse{Count: len(views), Problems: views})
	}
}

// GetProblem returns one record by id.
func GetProblem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := d.Store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "problem not found")
			return
		}
		writeJSON(w, http.StatusOK, viewOf(p))
	}
}

type trackRequest struct {
	URL        string   `json:"url" validate:"required,url,max=2048"`
	HTML       string   `json:"html,omitempty"`
	Fetch      bool     `json:"fetch,omitempty"`
	Title      string   `json:"title,omitempty" validate:"max=300"`
	Platform   string   `json:"platform,omitempty" validate:"max=50"`
	Tags       []string `json:"tags,omitempty" validate:"max=50,dive,max=100"`
	Difficulty string   `json:"difficulty,omitempty" validate:"max=50"`
}

type trackResponse struct {
	Result    string      `json:"result"`
	Extracted bool        `json:"extracted"`
	Problem   problemView `json:"problem"`
}

// TrackProblem records a solved problem. Metadata comes from, in order of
// precedence: explicit fields, the posted page HTML, a server-side fetch.
// Responds 201 for a new URL and 200 when an existing record was updated.
func TrackProblem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackRequest
		if err := decodeJSON(d, w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		url := strings.TrimSpace(req.URL)

		var (
			meta      domain.Metadata
			extracted bool
		)
		switch {
		case req.HTML != "":
			page, err := extract.ParsePageString(url, req.HTML)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid page HTML")
				return
			}
			res := extract.Run(page)
			meta, extracted = res.Data, res.Success

		case req.Fetch:
			if d.Fetcher == nil {
				writeError(w, http.StatusBadRequest, "page fetching is disabled")
				return
			}
			page, err := d.Fetcher.Fetch(r.Context(), url)
			if d.Metrics != nil {
				d.Metrics.ObserveFetch(err)
			}
			if err != nil {
				d.Logger.Warn("page fetch failed",
					logger.String("url", url),
					logger.Error(err))
				if errors.Is(err, extract.ErrUnavailable) {
					writeError(w, http.StatusServiceUnavailable, "page fetching temporarily unavailable")
					return
				}
				writeError(w, http.StatusBadGateway, "failed to fetch page")
				return
			}
			res := extract.Run(page)
			meta, extracted = res.Data, res.Success
		}

		meta = overlay(meta, req)

		p, result, err := d.Store.Track(r.Context(), url, meta, url)
		if err != nil {
			storeFailed(d, w, tracker.OpUpsert, err)
			return
		}

		d.Logger.Info("problem tracked",
			logger.String("id", p.ID),
			logger.String("platform", p.Platform),
			logger.String("result", result.String()))

		status := http.StatusOK
		if result == tracker.Inserted {
			status = http.StatusCreated
		}
		writeJSON(w, status, trackResponse{
			Result:    result.String(),
			Extracted: extracted,
			Problem:   viewOf(p),
		})
	}
}

// overlay applies the explicit request fields over extracted metadata.
func overlay(meta domain.Metadata, req trackRequest) domain.Metadata {
	if s := strings.TrimSpace(req.Title); s != "" {
		meta.Title = s
	}
	if s := strings.TrimSpace(req.Platform); s != "" {
		meta.Platform = s
	}
	if s := strings.TrimSpace(req.Difficulty); s != "" {
		meta.Difficulty = s
	}
	if len(req.Tags) > 0 {
		meta.Tags = req.Tags
	}
	return meta
}

// DeleteProblem removes a record. Unknown ids are not an error.
func DeleteProblem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DeleteByID(r.Context(), chi.URLParam(r, "id")); err != nil {
			storeFailed(d, w, tracker.OpDelete, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearProblems deletes every record. It requires ?confirm=true.
func ClearProblems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirm {
			writeError(w, http.StatusPreconditionRequired, "confirmation required: pass ?confirm=true")
			return
		}
		if err := d.Store.ClearAll(r.Context()); err != nil {
			storeFailed(d, w, tracker.OpClear, err)
			return
		}
		d.Logger.Warn("all problems cleared",
			logger.String("remote_ip", r.RemoteAddr))
		w.WriteHeader(http.StatusNoContent)
	}
}
