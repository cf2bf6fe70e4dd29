package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"project-service/internal/http/middleware"
	apperrors "project-service/pkg/errors"
	"project-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const msgInternalServerError = "Internal server error"

// ErrorBody is the uniform error response.
type ErrorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

type statusMapping struct {
	target  error
	status  int
	message string
}

// Order matters: the first sentinel found in the chain decides the status.
var statusMappings = []statusMapping{
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "Full authentication is required to access this resource"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{apperrors.ErrForbidden, http.StatusForbidden, "Access Denied"},
	{apperrors.ErrNotFound, http.StatusNotFound, "Resource not found"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, "Bad request"},
	{apperrors.ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{apperrors.ErrValidation, http.StatusBadRequest, "Validation error"},
	{apperrors.ErrConflict, http.StatusConflict, "Resource already exists"},
	{apperrors.ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
	{apperrors.ErrExpired, http.StatusGone, "Resource expired"},
}

// NewHTTPErrorHandler renders every error returned by handlers and
// middleware as an ErrorBody. Messages of 5xx errors never reach the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := resolve(err)

		event := log.Warn()
		if code >= http.StatusInternalServerError {
			event = log.Error()
			message = msgInternalServerError
		}
		event.Str("error", logger.SanitizeLogMessage(err.Error())).
			Str(middleware.RequestIDContextKey, c.Response().Header().Get(middleware.RequestIDHeader)).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", code).
			Msg("request failed")

		body := ErrorBody{
			Timestamp: time.Now().UTC(),
			Status:    code,
			Error:     http.StatusText(code),
			Message:   message,
			Path:      c.Request().URL.Path,
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

func resolve(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			return httpErr.Code, msg
		}
		if httpErr.Message != nil {
			return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
		}
		return httpErr.Code, http.StatusText(httpErr.Code)
	}

	code := http.StatusInternalServerError
	message := msgInternalServerError
	for _, m := range statusMappings {
		if errors.Is(err, m.target) {
			code, message = m.status, m.message
			break
		}
	}

	var appErr *apperrors.AppError
	if code < http.StatusInternalServerError && errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	return code, message
}
