package util

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound   = errors.New("requested resource not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("resource conflict")
	ErrBadRequest = errors.New("bad request")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
