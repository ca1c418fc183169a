package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"homeledger/internal/core"
	"homeledger/internal/log"
)

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", log.FieldError, err)
	}
}

// writeError is the single translation point from internal errors to
// response shapes. Validation problems surface with the offending
// field named; anything else is a generic 500 with the detail kept in
// the server log.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		writeJSON(ctx, w, http.StatusBadRequest, errorBody(ve.Error()))
		return
	}
	slog.ErrorContext(ctx, "Request failed", log.FieldError, err)
	writeJSON(ctx, w, http.StatusInternalServerError, errorBody("internal server error"))
}

// decodeJSON reads a request body into dst, translating decode
// failures caused by Money parsing into their validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return &core.ValidationError{Field: "body", Reason: "is not valid JSON"}
	}
	return nil
}

func methodNotAllowed(ctx context.Context, w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(ctx, w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
}
