package main

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrProgrammeNotFound = errors.New("programme not found")
	ErrPersonNotFound    = errors.New("person not found")
	ErrInvalidPerson     = errors.New("invalid person")
	ErrInvalidSession    = errors.New("invalid session")
	ErrInvalidRequest    = errors.New("invalid request")
)

// httpError maps service errors onto HTTP responses. Anything unrecognised is
// logged by the caller and reported as a 500.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrProgrammeNotFound), errors.Is(err, ErrPersonNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidPerson), errors.Is(err, ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidSession):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
