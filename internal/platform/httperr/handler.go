// Package httperr renders every error that reaches echo as a {"message": ...}
// JSON body, the only error shape the portal client understands.
package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/doctorsportal/portal/internal/platform/middleware"
)

// Body is the JSON error payload.
type Body struct {
	Message string `json:"message"`
}

const internalMessage = "internal server error"

// Handler returns an echo.HTTPErrorHandler. Errors that are not
// *echo.HTTPError are logged and hidden behind a generic 500.
func Handler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := Resolve(err)
		if code >= http.StatusInternalServerError {
			rid, _ := c.Get(middleware.RequestIDKey).(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", code).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, Body{Message: msg})
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}

// Resolve maps err to a status code and client-facing message.
func Resolve(err error) (int, string) {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return http.StatusInternalServerError, internalMessage
	}

	if he.Internal != nil && he.Code >= http.StatusInternalServerError && he.Message == nil {
		return he.Code, internalMessage
	}

	switch m := he.Message.(type) {
	case string:
		return he.Code, m
	case error:
		return he.Code, m.Error()
	case nil:
		return he.Code, http.StatusText(he.Code)
	default:
		return he.Code, fmt.Sprintf("%v", m)
	}
}
