package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mateh-lab/taskcast/pkg/usecase"
	"github.com/mateh-lab/taskcast/pkg/utils/errutil"
	"github.com/mateh-lab/taskcast/pkg/utils/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

// statusForError maps a use case error kind to an HTTP status code
func statusForError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes an error response with the status implied by the
// error kind. Internal errors hide their message from the client.
func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		errutil.Handle(ctx, err, "internal error on HTTP request")
		writeJSON(ctx, w, status, errorResponse{Error: "internal error"})
		return
	}

	logging.From(ctx).Warn("request rejected", "status", status, "error", err.Error())
	writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}
