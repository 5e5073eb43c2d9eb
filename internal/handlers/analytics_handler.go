package handlers

import (
	"net/http"

	"github.com/buyroll/backend/internal/middleware"
	"github.com/buyroll/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AnalyticsHandler handles spending analytics HTTP requests
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RegisterAnalyticsRoutes registers analytics-related routes
func (h *AnalyticsHandler) RegisterAnalyticsRoutes(g *echo.Group) {
	g.GET("/analytics/summary", h.Summary)
	g.GET("/analytics/by-category", h.ByCategory)
	g.GET("/analytics/by-month", h.ByMonth)
	g.GET("/analytics/by-store", h.ByStore)
}

func (h *AnalyticsHandler) Summary(c echo.Context) error {
	summary, err := h.analyticsService.Summary(middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load analytics")
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) ByCategory(c echo.Context) error {
	rows, err := h.analyticsService.ByCategory(middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load analytics")
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AnalyticsHandler) ByMonth(c echo.Context) error {
	rows, err := h.analyticsService.ByMonth(middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load analytics")
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AnalyticsHandler) ByStore(c echo.Context) error {
	rows, err := h.analyticsService.ByStore(middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load analytics")
	}
	return c.JSON(http.StatusOK, rows)
}
