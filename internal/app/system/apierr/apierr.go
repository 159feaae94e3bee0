// Package apierr provides the JSON error envelope and response helpers used
// by every API handler.
//
// Errors carry a stable machine-readable code alongside the human-readable
// message so clients can distinguish, e.g., a malformed coordinate
// (invalid_coordinates) from a geofence rejection (outside_geofence) and
// render different messaging for each.
package apierr

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Stable error codes shared across features.
const (
	CodeInvalidCoordinates = "invalid_coordinates"
	CodeOutsideGeofence    = "outside_geofence"
	CodeInvalidInput       = "invalid_input"
	CodeNotFound           = "not_found"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodePersistenceFailed  = "persistence_failed"
	CodeRateLimited        = "rate_limited"
)

// envelope is the wire form of an API error.
type envelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, envelope{Error: errorBody{Code: code, Message: message}})
}

// Unauthorized writes a 401 with the standard envelope.
func Unauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "Sign in required.")
}

// Forbidden writes a 403 with the standard envelope.
func Forbidden(w http.ResponseWriter) {
	WriteError(w, http.StatusForbidden, CodeForbidden, "You don't have permission to do that.")
}

// TooManyRequests writes a 429 with the standard envelope.
func TooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, CodeRateLimited, message)
}

// NotFound writes a 404 with the standard envelope.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// ErrorLogger pairs error responses with structured logging so handlers stay
// one-liners at failure points.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger backed by the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest logs at warn and writes a 400 with the given code.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, code, userMsg string) {
	e.log.Warn(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("code", code),
		zap.Error(err))
	WriteError(w, http.StatusBadRequest, code, userMsg)
}

// LogServerError logs at error and writes a 500 persistence_failed envelope.
// No partial state is ever exposed to the caller.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Error(logMsg,
		zap.String("path", r.URL.Path),
		zap.Error(err))
	WriteError(w, http.StatusInternalServerError, CodePersistenceFailed, userMsg)
}
