package handlers

import (
	"net/http"

	"github.com/buyroll/backend/internal/metrics"
	"github.com/buyroll/backend/internal/middleware"
	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/repositories"
	syncsvc "github.com/buyroll/backend/internal/services/sync"
	"github.com/labstack/echo/v4"
)

// IntegrationHandler handles store integration HTTP requests
type IntegrationHandler struct {
	integrationRepository repositories.StoreIntegrationRepository
	syncer                *syncsvc.Syncer
	metrics               *metrics.Metrics
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(
	integrationRepo repositories.StoreIntegrationRepository,
	syncer *syncsvc.Syncer,
	m *metrics.Metrics,
) *IntegrationHandler {
	return &IntegrationHandler{
		integrationRepository: integrationRepo,
		syncer:                syncer,
		metrics:               m,
	}
}

// RegisterIntegrationRoutes registers store integration routes
func (h *IntegrationHandler) RegisterIntegrationRoutes(g *echo.Group) {
	g.POST("/integrations", h.Create)
	g.GET("/integrations", h.List)
	g.POST("/integrations/:id/sync", h.SyncNow)
	g.DELETE("/integrations/:id", h.Delete)
}

// Create connects a new external store for the caller
func (h *IntegrationHandler) Create(c echo.Context) error {
	userID := middleware.UserID(c)

	var req models.CreateIntegrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Platform == models.PlatformWooCommerce && req.ConsumerKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "consumer_key is required for WooCommerce")
	}

	integration := &models.StoreIntegration{
		UserID:      userID,
		Platform:    req.Platform,
		StoreURL:    req.StoreURL,
		AccessToken: req.AccessToken,
		ConsumerKey: req.ConsumerKey,
		Active:      true,
	}
	if err := h.integrationRepository.CreateIntegration(integration); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "Store is already connected")
	}
	return c.JSON(http.StatusCreated, integration)
}

// List returns the caller's connected stores
func (h *IntegrationHandler) List(c echo.Context) error {
	integrations, err := h.integrationRepository.ListByUser(middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list integrations")
	}
	return c.JSON(http.StatusOK, integrations)
}

// SyncNow runs one sync for the integration immediately
func (h *IntegrationHandler) SyncNow(c echo.Context) error {
	userID := middleware.UserID(c)
	integrationID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	integration, err := h.integrationRepository.GetByID(integrationID)
	if err != nil || integration.UserID != userID {
		return echo.NewHTTPError(http.StatusNotFound, "Integration not found")
	}

	if err := h.syncer.SyncIntegration(c.Request().Context(), integration); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Store sync failed")
	}
	h.metrics.SyncRuns.WithLabelValues(integration.Platform).Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete disconnects a store
func (h *IntegrationHandler) Delete(c echo.Context) error {
	userID := middleware.UserID(c)
	integrationID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.integrationRepository.DeleteIntegration(integrationID, userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete integration")
	}
	return c.NoContent(http.StatusNoContent)
}
