package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport indicates the request never reached the server or the
	// response could not be read.
	ErrTransport = errors.New("api: transport failure")

	// ErrUnauthorized matches an *Error with status 401.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrNotFound matches an *Error with status 404.
	ErrNotFound = errors.New("api: not found")
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status int
	Detail string // Backend-supplied message, empty if none.
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Is lets errors.Is match status-class sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Detail returns the backend-supplied message carried by err, or "".
func Detail(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Detail
	}
	return ""
}

// parseError builds an *Error from a failed response body. The backend sends
// {"detail": "..."}; validation failures send a list of {"msg": "..."}.
func parseError(status int, payload []byte) *Error {
	e := &Error{Status: status}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || len(body.Detail) == 0 {
		return e
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		e.Detail = s
		return e
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
		e.Detail = items[0].Msg
	}
	return e
}
