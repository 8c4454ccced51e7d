package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/imports"
	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/tracker"
)

// Export downloads the collection as a dated JSON backup.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := d.Store.Export(&buf); err != nil {
			d.Logger.Error("export failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+tracker.ExportFileName(d.Now())+`"`)
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

// Import merges an exported document (JSON, or the YAML seed format) into
// the collection, upserting by URL.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			if tooLarge := new(http.MaxBytesError); errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "import body too large")
				return
			}
			d.Logger.Warn("import body unreadable", logger.Error(err))
			writeError(w, http.StatusBadRequest, "could not read import body")
			return
		}

		file, err := imports.Parse(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid import document")
			return
		}

		problems := imports.NewMapper(d.Now().Location()).MapProblems(file)
		report, err := d.Store.Import(r.Context(), problems)
		if err != nil {
			storeFailed(d, w, tracker.OpImport, err)
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}
