package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PublicHandler serves the unauthenticated informational pages.
type PublicHandler struct{}

func NewPublicHandler() *PublicHandler {
	return &PublicHandler{}
}

func (h *PublicHandler) Notices(c echo.Context) error {
	return c.String(http.StatusOK, "Here are the system notices.")
}

func (h *PublicHandler) Contact(c echo.Context) error {
	return c.String(http.StatusOK, "Contact support at support@ebanking.com or call +123456789.")
}
