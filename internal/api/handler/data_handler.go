package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataHandler serves the sample role-gated resources. The payloads carry
// no real data; the routes exist so the gate's user and admin namespaces
// have something to protect.
type DataHandler struct{}

func NewDataHandler() *DataHandler {
	return &DataHandler{}
}

// Private is reachable by USER and ADMIN tokens.
func (h *DataHandler) Private(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "this is private data for role USER"})
}

// Admin is reachable by ADMIN tokens only.
func (h *DataHandler) Admin(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "this is admin data for role ADMIN"})
}
