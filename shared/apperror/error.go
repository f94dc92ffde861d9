package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is the single client-facing error kind. It carries an HTTP status code
// and a human-readable message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with the given status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// BadRequest creates a 400 Error.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Internal creates a 500 Error.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// StatusOf returns the status carried by err, or 500 when err is not an *Error.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

type responseBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Write renders the status and message as a JSON error body.
func Write(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(responseBody{Status: status, Message: message})
}
