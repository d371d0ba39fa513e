package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bloodbank/bloodbank/internal/platform/apperr"
)

// errorBody is the uniform failure envelope. Internal errors get a generic
// message; their detail goes to the server log only.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorHandler maps domain errors and echo HTTP errors to JSON responses.
// Installed as echo's HTTPErrorHandler.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		switch e := err.(type) {
		case *echo.HTTPError:
			status = e.Code
			if m, ok := e.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		default:
			kind := apperr.KindOf(err)
			status = apperr.HTTPStatus(kind)
			if kind != apperr.KindInternal {
				message = err.Error()
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("request_id", ContextID(c)).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, errorBody{Success: false, Message: message})
	}
}
