// Package httpx writes error responses in the shape each client expects:
// a JSON envelope for htmx requests, plain text for everything else.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Error is the JSON error envelope.
type Error struct {
	Code      string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// NewError constructs an Error, defaulting the status to 500.
func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{Code: sanitize(code, 80), Message: sanitize(message, 512), Status: status}
}

func (e Error) Error() string { return e.Code + ": " + e.Message }

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// WriteError answers r with e. htmx and JSON clients receive the envelope;
// browsers navigating normally receive text.
func WriteError(w http.ResponseWriter, r *http.Request, e Error) {
	if e.Status == 0 {
		e.Status = http.StatusInternalServerError
	}
	if e.RequestID == "" {
		e.RequestID = sanitize(middleware.GetReqID(r.Context()), 80)
	}
	if IsHTMX(r) || strings.Contains(r.Header.Get("Accept"), "application/json") {
		WriteJSON(w, e.Status, e)
		return
	}
	http.Error(w, e.Message, e.Status)
}

// BadRequest writes a 400 with code bad_request.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, NewError("bad_request", message, http.StatusBadRequest))
}

// NotFound writes a 404 with code not_found.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, NewError("not_found", message, http.StatusNotFound))
}

// Internal writes a 500 without leaking the cause.
func Internal(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sanitize(value string, limit int) string {
	value = strings.NewReplacer("\n", " ", "\r", " ").Replace(value)
	value = strings.TrimSpace(value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
