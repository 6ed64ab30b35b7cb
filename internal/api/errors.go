package api

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError regardless of kind.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a paste or user that does not exist server side.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Error is the structured failure body returned by the backend.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// UnhandledStatusError is returned when a non-2xx response does not carry
// the expected error body.
type UnhandledStatusError struct {
	Status int
	Text   string
}

func (e *UnhandledStatusError) Error() string {
	return fmt.Sprintf("unhandled status %d %s", e.Status, e.Text)
}

// ErrorBody is the wire shape of Error. Both fields are required.
type ErrorBody struct {
	Code    *int    `json:"code"`
	Message *string `json:"message"`
}
