package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/trippacks/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Messages []string `json:"messages,omitempty"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Error codes.
const (
	codeNotFound          = "not_found"
	codeValidation        = "validation_error"
	codeUnsupportedTarget = "unsupported_target"
	codeUnknownColumn     = "unknown_column"
	codeBadRequest        = "bad_request"
	codeUnavailable       = "unavailable"
	codeInternal          = "internal_error"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string, messages ...string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Messages: messages}})
}

// writeDomainError maps domain sentinels to HTTP responses. Anything else is
// logged and answered with 500 so store details do not leak to clients.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedTarget), errors.Is(err, domain.ErrUnknownTarget):
		writeError(w, http.StatusBadRequest, codeUnsupportedTarget, unwrapMessage(err))
	case errors.Is(err, domain.ErrUnknownColumn):
		writeError(w, http.StatusBadRequest, codeUnknownColumn, unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, unwrapMessage(err))
	default:
		s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// unwrapMessage drops the "pkg.Type.Method: " prefixes from a wrapped error.
// e.g. "repo.Records.Query: unknown column: trips.location" → "unknown column: trips.location"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || strings.Contains(head, " ") || !strings.Contains(head, ".") {
			return msg
		}
		msg = rest
	}
}
