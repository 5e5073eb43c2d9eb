package handlers

import (
	"net/http"
	"strconv"

	"github.com/buyroll/backend/internal/middleware"
	"github.com/buyroll/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns one page of friends' shared purchases for the current user
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID := middleware.UserID(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	friendID, _ := strconv.ParseUint(c.QueryParam("friend_id"), 10, 32)
	category := c.QueryParam("category")

	feed, err := h.feedService.GetFeed(userID, page, perPage, uint(friendID), category)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load feed")
	}
	return c.JSON(http.StatusOK, feed)
}
