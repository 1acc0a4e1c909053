package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BankHandler serves the static USER-role account pages of the banking demo.
type BankHandler struct{}

func NewBankHandler() *BankHandler {
	return &BankHandler{}
}

func (h *BankHandler) MyLoans(c echo.Context) error {
	return c.String(http.StatusOK, "Here are your loan details.")
}

func (h *BankHandler) MyCards(c echo.Context) error {
	return c.String(http.StatusOK, "Here are your credit card details.")
}

func (h *BankHandler) MyAccount(c echo.Context) error {
	return c.String(http.StatusOK, "Here are your account details.")
}

func (h *BankHandler) MyBalance(c echo.Context) error {
	return c.String(http.StatusOK, "Here is your account balance.")
}
