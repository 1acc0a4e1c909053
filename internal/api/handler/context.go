package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/youcode/ebanking-api/internal/core/domain"
)

// ctxUsername extracts the caller's username injected by the Authenticate
// middleware. Operations acting on "the caller" resolve their subject here,
// never from a path or body parameter.
func ctxUsername(c echo.Context) (string, error) {
	username, _ := c.Get("username").(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, nil
}

// fail translates a service error into the error envelope. Unknown errors are
// passed back to echo's central error handler, which logs them and renders a
// generic 500.
func fail(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, ve.Messages)
	}

	status := 0
	switch {
	case errors.Is(err, domain.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUserDisabled):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrTooManyAttempts):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoleNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrSamePassword):
		status = http.StatusBadRequest
	default:
		return err
	}

	return c.JSON(status, errorResponse{Message: err.Error(), Status: status})
}
