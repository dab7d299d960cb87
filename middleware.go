package main

import (
	"errors"
	"net/http"
	"syscall"

	"github.com/labstack/echo/v4"
	"go.elastic.co/apm"
)

const (
	// Utilizes a non-standard nginx code
	statusClosedConnection int = 499

	sessionKey = "session"
)

func filterError(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := c.Response()
		// Process the request
		err := next(c)
		// The below is executed after the request and subsequent middleware
		if err != nil {
			// Check for a broken pipe, modify response status, and create an error
			if errors.Is(err, syscall.EPIPE) {
				logger(c.Request().Context(), err)
				resp.Status = statusClosedConnection
				return nil
			}
		}
		return err
	}
}

// requireSession verifies the bearer session token and stores its claims on
// the context.
func requireSession(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()

			span, _ := apm.StartSpan(r.Context(), "Authorize Request", "Session")
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				span.End()
				logger(r.Context(), errors.New("authorization header not found"))
				return c.NoContent(http.StatusUnauthorized)
			}

			claims, err := parseToken(authHeader, secret)
			span.End()
			if err != nil {
				logger(r.Context(), err)
				return c.NoContent(http.StatusUnauthorized)
			}

			// Set claims on context struct
			c.Set(sessionKey, claims)

			return next(c)
		}
	}
}

func sessionClaims(c echo.Context) (*SessionClaims, error) {
	claims, ok := c.Get(sessionKey).(*SessionClaims)
	if !ok || claims == nil {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
