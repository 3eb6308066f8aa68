package client

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/shipagency/internal/common"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotLoggedIn = errors.New("not logged in")
)

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	switch target {
	case common.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case common.ErrForbidden:
		return e.Status == http.StatusForbidden
	case common.ErrorNotFound:
		return e.Status == http.StatusNotFound
	case common.ErrValidation:
		return e.Status == http.StatusBadRequest
	}
	return false
}
