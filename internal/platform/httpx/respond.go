// Package httpx provides JSON response utilities and the API error type.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// errorEnvelope is the uniform error response body.
type errorEnvelope struct {
	Err     *Error `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError renders err as the {error, message} envelope. A *Error carries
// its own status; anything else defaults to 500.
func RespondError(w http.ResponseWriter, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = &Error{Status: http.StatusInternalServerError, Message: err.Error()}
	}
	if apiErr.Status == 0 {
		apiErr.Status = http.StatusInternalServerError
	}
	JSON(w, apiErr.Status, errorEnvelope{Err: apiErr, Message: apiErr.Message})
}

// DecodeJSON decodes a JSON request body into the target struct. An empty
// body is treated as an empty object; absent fields stay at their zero values
// and it is up to the caller (ultimately the store's constraints) to reject
// them.
func DecodeJSON(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
