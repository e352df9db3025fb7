package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/miguelgnzalez28/ultimate-kits/internal/apperror"
)

// ErrorResponse is the error body shape for every API endpoint. The field
// is named detail to match what the frontend already parses.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// writeJSON sends a JSON response. Headers and status must be set before
// the first body write; encoding failures after that can only be logged.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status. The service layer
// returns apperror sentinels; this is the only place they become status
// codes. Unknown errors become a generic 500 so internals never leak to
// clients. CORS headers are applied by middleware on every response,
// including these, so browser clients always see the failure.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrConflict):
			// Duplicate email surfaces as 400, not 409; the frontend
			// treats any 400 on register as a form error.
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrUnavailable):
			status = http.StatusServiceUnavailable
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusInternalServerError
		}

		writeJSON(w, status, ErrorResponse{Detail: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Detail: "Internal server error",
	})
}

// errStoreUnavailable is what the degraded-mode routes return when the
// document store was unreachable at startup.
var errStoreUnavailable = apperror.Unavailable("Database not available. Please check MongoDB connection.")

// Unavailable is the handler registered on auth and admin routes when the
// server runs in image-proxy-only mode. Failing fast here beats letting
// requests hang against a dead store.
func Unavailable(w http.ResponseWriter, r *http.Request) {
	writeError(w, errStoreUnavailable)
}
