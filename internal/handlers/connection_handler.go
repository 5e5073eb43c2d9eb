package handlers

import (
	"net/http"

	"github.com/buyroll/backend/internal/middleware"
	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ConnectionHandler handles friendship HTTP requests
type ConnectionHandler struct {
	connectionService *services.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connectionService *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// RegisterConnectionRoutes registers friendship-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/connections", h.SendRequest)
	g.GET("/connections/pending", h.ListPending)
	g.PUT("/connections/:id", h.Respond)
	g.DELETE("/connections/:friend_id", h.Unfriend)
	g.GET("/friends", h.ListFriends)
}

// SendRequest sends a friend request to another user
func (h *ConnectionHandler) SendRequest(c echo.Context) error {
	userID := middleware.UserID(c)

	var req models.CreateConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	conn, err := h.connectionService.SendRequest(userID, req.FriendID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, conn)
}

// ListPending lists pending friend requests addressed to the caller
func (h *ConnectionHandler) ListPending(c echo.Context) error {
	requests, err := h.connectionService.ListPending(middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list friend requests")
	}
	return c.JSON(http.StatusOK, requests)
}

// Respond accepts or rejects a pending friend request
func (h *ConnectionHandler) Respond(c echo.Context) error {
	userID := middleware.UserID(c)
	connectionID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	conn, err := h.connectionService.Respond(connectionID, userID, req.Status)
	if err != nil {
		if err.Error() == "friend request not found" {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, conn)
}

// Unfriend removes the friendship with the given user
func (h *ConnectionHandler) Unfriend(c echo.Context) error {
	userID := middleware.UserID(c)
	friendID, err := parseID(c, "friend_id")
	if err != nil {
		return err
	}

	if err := h.connectionService.Unfriend(userID, friendID); err != nil {
		if err.Error() == "connection not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Connection not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove connection")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListFriends lists the caller's accepted friends
func (h *ConnectionHandler) ListFriends(c echo.Context) error {
	friends, err := h.connectionService.ListFriends(middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list friends")
	}

	results := make([]models.UserCompact, len(friends))
	for i := range friends {
		results[i] = friends[i].ToCompact()
	}
	return c.JSON(http.StatusOK, results)
}
