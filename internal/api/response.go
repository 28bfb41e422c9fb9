package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/dostava/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// storeError translates a store failure into an error response. Missing
// records become 404, lock contention 503, anything else 500.
func storeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrBusy):
		slog.Warn("database busy", "action", action, "request_id", RequestID(r.Context()), "error", err)
		jsonError(w, http.StatusServiceUnavailable, "failed to "+action+": database busy")
	default:
		slog.Error("storage failure", "action", action, "request_id", RequestID(r.Context()), "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

type messageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
