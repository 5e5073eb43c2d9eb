package handlers

import (
	"net/http"

	"github.com/buyroll/backend/internal/metrics"
	"github.com/buyroll/backend/internal/middleware"
	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// InteractionHandler handles like/comment/save HTTP requests
type InteractionHandler struct {
	interactionService *services.InteractionService
	metrics            *metrics.Metrics
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(interactionService *services.InteractionService, m *metrics.Metrics) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService, metrics: m}
}

// RegisterInteractionRoutes registers interaction-related routes
func (h *InteractionHandler) RegisterInteractionRoutes(g *echo.Group) {
	g.POST("/purchases/:id/like", h.ToggleLike)
	g.POST("/purchases/:id/comment", h.AddComment)
	g.POST("/purchases/:id/save", h.ToggleSave)
	g.GET("/purchases/:id/comments", h.GetComments)
	g.GET("/saved", h.GetSaved)
}

// ToggleLike likes or unlikes a purchase for the current user
func (h *InteractionHandler) ToggleLike(c echo.Context) error {
	userID := middleware.UserID(c)
	purchaseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.interactionService.ToggleLike(purchaseID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update like")
	}
	if !result.Success {
		return echo.NewHTTPError(http.StatusNotFound, result.Message)
	}

	h.metrics.Interactions.WithLabelValues(models.InteractionTypeLike).Inc()
	return c.JSON(http.StatusOK, result)
}

// AddComment appends a comment to a purchase
func (h *InteractionHandler) AddComment(c echo.Context) error {
	userID := middleware.UserID(c)
	purchaseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.interactionService.AddComment(purchaseID, userID, req.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add comment")
	}
	if !result.Success {
		if result.Message == services.MsgPurchaseNotAccessible {
			return echo.NewHTTPError(http.StatusNotFound, result.Message)
		}
		return echo.NewHTTPError(http.StatusBadRequest, result.Message)
	}

	h.metrics.Interactions.WithLabelValues(models.InteractionTypeComment).Inc()
	return c.JSON(http.StatusCreated, result)
}

// ToggleSave bookmarks or un-bookmarks a purchase for the current user
func (h *InteractionHandler) ToggleSave(c echo.Context) error {
	userID := middleware.UserID(c)
	purchaseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.interactionService.ToggleSave(purchaseID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update save")
	}
	if !result.Success {
		return echo.NewHTTPError(http.StatusNotFound, result.Message)
	}

	h.metrics.Interactions.WithLabelValues(models.InteractionTypeSave).Inc()
	return c.JSON(http.StatusOK, result)
}

// GetComments lists a purchase's comments, oldest first
func (h *InteractionHandler) GetComments(c echo.Context) error {
	userID := middleware.UserID(c)
	purchaseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comments, ok, err := h.interactionService.GetComments(purchaseID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load comments")
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, services.MsgPurchaseNotAccessible)
	}
	return c.JSON(http.StatusOK, comments)
}

// GetSaved lists the caller's saved purchases that are still visible
func (h *InteractionHandler) GetSaved(c echo.Context) error {
	purchases, err := h.interactionService.GetSavedPurchases(middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load saved purchases")
	}
	return c.JSON(http.StatusOK, purchases)
}
