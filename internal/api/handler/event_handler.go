package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clubconnect/auth-service/internal/core/ports"
)

// EventHandler handles attended-event membership for a user.
type EventHandler struct {
	membership ports.MembershipService
}

func NewEventHandler(membership ports.MembershipService) *EventHandler {
	return &EventHandler{membership: membership}
}

// Add records an attended event for a user.
//
// @Summary      Add an attended event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Param        eventId   path  int     true  "Event ID"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/auth/add-event/{username}/{eventId} [post]
func (h *EventHandler) Add(c echo.Context) error {
	username, eventID, err := eventParams(c)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(c, username); err != nil {
		return err
	}

	if err := h.membership.AddEvent(c.Request().Context(), username, eventID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "event added to user's attended events"})
}

// Remove drops an attended event from a user's set.
//
// @Summary      Remove an attended event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Param        eventId   path  int     true  "Event ID"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/auth/remove-event/{username}/{eventId} [delete]
func (h *EventHandler) Remove(c echo.Context) error {
	username, eventID, err := eventParams(c)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(c, username); err != nil {
		return err
	}

	if err := h.membership.RemoveEvent(c.Request().Context(), username, eventID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "event removed from user's attended events"})
}

// List returns the user's attended-event ids.
//
// @Summary      List attended events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      200   {object}  eventsResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/auth/events/{username} [get]
func (h *EventHandler) List(c echo.Context) error {
	username := c.Param("username")
	if err := requireOwnerOrAdmin(c, username); err != nil {
		return err
	}

	events, err := h.membership.ListEvents(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, eventsResponse{Username: username, Events: events})
}

// eventParams reads the username and numeric event id path parameters.
func eventParams(c echo.Context) (string, int, error) {
	username := c.Param("username")
	eventID, err := strconv.Atoi(c.Param("eventId"))
	if err != nil {
		return "", 0, echo.NewHTTPError(http.StatusBadRequest, "event id must be an integer")
	}
	return username, eventID, nil
}
