package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Veraticus/finpulse/internal/common"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/storage"
)

// WriteJSON writes data as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

// WriteData wraps data in the {"data": ...} envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, map[string]any{"data": data})
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidPeriod),
		errors.Is(err, storage.ErrEmptyString),
		errors.Is(err, storage.ErrNilParameter),
		errors.Is(err, storage.ErrInvalidAmount),
		errors.Is(err, storage.ErrInvalidMonth),
		errors.Is(err, storage.ErrInvalidYear),
		errors.Is(err, storage.ErrInvalidTransaction),
		errors.Is(err, storage.ErrInvalidFrequency),
		errors.Is(err, storage.ErrInvalidCycle):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeErr reports err to the client. Server errors are logged and their
// details withheld.
func writeErr(w http.ResponseWriter, r *http.Request, err error, action string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(action+" failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", RequestIDFrom(r.Context()))
		WriteError(w, status, "Failed to "+action)
		return
	}
	WriteError(w, status, err.Error())
}
