package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrCreateRequest     = errors.New("error creating a request")
	ErrInvalidStatusCode = errors.New("invalid status code")
	ErrInvalidResponse   = errors.New("invalid response from reddit")
	ErrInvalidOptions    = errors.New("invalid request options")
	ErrNotFound          = errors.New("not found")
)

// StatusError is returned when reddit answers with a non-2xx status.
type StatusError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s (%s)", ErrInvalidStatusCode, e.StatusCode, e.Status, e.URL)
}

// Is makes every StatusError match ErrInvalidStatusCode, and a 404 additionally match ErrNotFound.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrInvalidStatusCode:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}
