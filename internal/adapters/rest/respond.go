package rest

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"

	"github.com/ewilliams-labs/songle/internal/core/domain"
	"github.com/ewilliams-labs/songle/internal/core/ports"
)

const (
	errCodeInvalidArgument = "INVALID_ARGUMENT"
	errCodeNotFound        = "NOT_FOUND"
	errCodeArchiveDisabled = "ARCHIVE_DISABLED"
	errCodeUpstream        = "UPSTREAM_ERROR"
	errCodeInternal        = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARN rest: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeErrorWithCode(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var apiErr *ports.APIError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrUnknownMapKind):
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidArgument)
	case errors.Is(err, domain.ErrNotFound):
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeNotFound)
	case errors.Is(err, domain.ErrArchiveDisabled):
		writeErrorWithCode(w, http.StatusNotImplemented, err.Error(), errCodeArchiveDisabled)
	case errors.As(err, &apiErr):
		writeErrorWithCode(w, http.StatusBadGateway, err.Error(), errCodeUpstream)
	default:
		log.Printf("WARN rest: unhandled error: %v", err)
		writeErrorWithCode(w, http.StatusInternalServerError, err.Error(), errCodeInternal)
	}
}

func isJSONContentType(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
