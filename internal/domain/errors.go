package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrTokenInvalid = errors.New("token expired or invalid")
	ErrUpstream     = errors.New("backend unavailable")
	ErrNoSelection  = errors.New("no place selected")
)

// StatusError is a non-2xx backend response. It unwraps to one of the
// sentinel errors above: Kind when set, otherwise by Code.
type StatusError struct {
	Code int
	Body string
	Kind error
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend status %d", e.Code)
	}
	return fmt.Sprintf("backend status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.Kind != nil {
		return e.Kind
	}
	switch {
	case e.Code == http.StatusNotFound || e.Code == http.StatusGone:
		return ErrNotFound
	case e.Code == http.StatusTooManyRequests:
		return ErrUpstream
	case e.Code >= 400 && e.Code < 500:
		return ErrTokenInvalid
	}
	return ErrUpstream
}

// StatusCode extracts the backend status from err, 0 when there is none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
