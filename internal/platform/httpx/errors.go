package httpx

import "net/http"

// Error is a failure carrying an HTTP status code and message. Handlers
// return it to short-circuit into the uniform error response; any other
// error kind renders as a 500.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string { return e.Message }

// NewError builds an Error with an explicit status.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// NotFound builds the 404 variant used by primary-key lookups.
func NotFound(message string) *Error {
	return NewError(http.StatusNotFound, message)
}
