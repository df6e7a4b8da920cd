package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lastmile-ai/mcp-registry-search/application/service"
	"github.com/lastmile-ai/mcp-registry-search/domain/search"
	"github.com/lastmile-ai/mcp-registry-search/internal/database"
)

// APIError carries an HTTP status code alongside a message.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates an APIError.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{code: code, message: message, cause: cause}
}

// Code returns the HTTP status code.
func (e *APIError) Code() int { return e.code }

// Message returns the client-facing message.
func (e *APIError) Message() string { return e.message }

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error { return e.cause }

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps an error to an HTTP status and writes a JSON error body.
// Internal errors are logged and replaced with a generic message so storage
// and provider details never leak to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Code()
		message = apiErr.Message()
	case errors.Is(err, service.ErrEmptyQuery):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrSyncInProgress):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	case errors.Is(err, search.ErrSemanticSignal):
		status = http.StatusBadGateway
		message = "semantic search unavailable"
	case errors.Is(err, search.ErrLexicalSignal):
		status = http.StatusBadGateway
		message = "full-text search unavailable"
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	WriteJSON(w, status, errorBody{Error: message})
}
