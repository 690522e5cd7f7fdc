package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidPage is returned for page numbers below 1; no request is made.
	ErrInvalidPage = errors.New("page must be 1 or greater")
	// ErrNotFound matches a StatusError with code 404.
	ErrNotFound = errors.New("not found")
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Code)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// Is reports a 404 as ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// AppError is a 2xx response carrying success=false.
type AppError struct {
	Message string
}

func (e *AppError) Error() string { return e.Message }
