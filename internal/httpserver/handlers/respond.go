package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/tracker"
)

// maxBodyBytes bounds JSON and import payloads.
const maxBodyBytes = 10 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// storeFailed reports a failed store operation. Persistence failures are
// hidden behind a generic message.
func storeFailed(d deps.Deps, w http.ResponseWriter, op string, err error) {
	d.Logger.Error("store operation failed",
		logger.String("operation", op),
		logger.Error(err))
	if errors.Is(err, tracker.ErrPersistence) {
		writeError(w, http.StatusServiceUnavailable, "operation failed")
		return
	}
	writeError(w, http.StatusInternalServerError, "operation failed")
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(d deps.Deps, w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if d.Validator == nil {
		return nil
	}
	if err := d.Validator.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "url", "http_url":
			msgs = append(msgs, field+" must be a valid URL")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
