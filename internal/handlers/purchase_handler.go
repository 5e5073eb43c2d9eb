package handlers

import (
	"net/http"
	"strconv"

	"github.com/buyroll/backend/internal/metrics"
	"github.com/buyroll/backend/internal/middleware"
	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/repositories"
	"github.com/buyroll/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const maxPurchasesPerPage = 100

// PurchaseHandler handles purchase listing, detail, and sharing routes
type PurchaseHandler struct {
	purchaseRepository repositories.PurchaseRepository
	sharingService     *services.SharingService
	notifications      *services.NotificationService
	metrics            *metrics.Metrics
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(
	purchaseRepo repositories.PurchaseRepository,
	sharingService *services.SharingService,
	notifications *services.NotificationService,
	m *metrics.Metrics,
) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseRepository: purchaseRepo,
		sharingService:     sharingService,
		notifications:      notifications,
		metrics:            m,
	}
}

// RegisterPurchaseRoutes registers purchase-related routes
func (h *PurchaseHandler) RegisterPurchaseRoutes(g *echo.Group) {
	g.GET("/purchases", h.ListPurchases)
	g.GET("/purchases/stats", h.GetSharingStats)
	g.GET("/purchases/shared", h.ListSharedPurchases)
	g.PUT("/purchases/bulk-share", h.BulkShare)
	g.GET("/purchases/:id", h.GetPurchase)
	g.PUT("/purchases/:id/share", h.Share)
	g.PUT("/purchases/:id/unshare", h.Unshare)
	g.PUT("/purchases/:id/share-comment", h.UpdateShareComment)
}

// ListPurchases returns the caller's own purchases with filtering and
// pagination.
func (h *PurchaseHandler) ListPurchases(c echo.Context) error {
	userID := middleware.UserID(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	} else if perPage > maxPurchasesPerPage {
		perPage = maxPurchasesPerPage
	}

	sortBy := c.QueryParam("sort_by")
	switch sortBy {
	case "", "purchase_date", "price", "title":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "sort_by must be one of purchase_date, price, title")
	}
	sortOrder := c.QueryParam("sort_order")
	switch sortOrder {
	case "", "asc", "desc":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "sort_order must be asc or desc")
	}

	query := models.PurchaseListQuery{
		SharedOnly: c.QueryParam("shared_only") == "true",
		Category:   c.QueryParam("category"),
		Store:      c.QueryParam("store"),
		SortBy:     sortBy,
		SortOrder:  sortOrder,
		Page:       page,
		PerPage:    perPage,
	}

	purchases, total, err := h.purchaseRepository.ListByUser(userID, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list purchases")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"purchases": purchases,
		"meta":      paginationMeta(page, perPage, total),
	})
}

// GetPurchase returns one purchase, gated by the canonical visibility
// predicate. Missing and forbidden are the same 404.
func (h *PurchaseHandler) GetPurchase(c echo.Context) error {
	userID := middleware.UserID(c)
	purchaseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ok, err := h.sharingService.CanViewPurchase(purchaseID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load purchase")
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, services.MsgPurchaseNotAccessible)
	}

	purchase, err := h.purchaseRepository.GetPurchaseByID(purchaseID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load purchase")
	}
	return c.JSON(http.StatusOK, purchase)
}

// Share flips an unshared purchase to shared (with an optional comment) and
// fans out notifications to friends.
func (h *PurchaseHandler) Share(c echo.Context) error {
	return h.toggle(c, true)
}

// Unshare flips a shared purchase back to private and clears its comment.
func (h *PurchaseHandler) Unshare(c echo.Context) error {
	return h.toggle(c, false)
}

func (h *PurchaseHandler) toggle(c echo.Context, wantShared bool) error {
	userID := middleware.UserID(c)
	purchaseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var comment *string
	if wantShared {
		var req models.ShareRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
		}
		if err := c.Validate(&req); err != nil {
			return err
		}
		comment = req.Comment
	}

	// The share/unshare routes are deliberately idempotent from the client's
	// view: toggling is only applied when the purchase is not already in the
	// requested state.
	purchase, err := h.purchaseRepository.GetPurchaseByID(purchaseID)
	if err == nil && purchase.UserID == userID && purchase.IsShared == wantShared {
		return c.JSON(http.StatusOK, echo.Map{
			"success":   true,
			"is_shared": purchase.IsShared,
			"message":   "already in requested state",
		})
	}

	result, err := h.sharingService.ToggleSharing(purchaseID, userID, comment)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update sharing")
	}
	if !result.Success {
		return echo.NewHTTPError(http.StatusNotFound, result.Message)
	}

	h.notifications.DeliverShareNotifications(userID, result.NotifyTargets)
	if result.IsShared {
		h.metrics.ShareToggles.WithLabelValues("shared").Inc()
	} else {
		h.metrics.ShareToggles.WithLabelValues("unshared").Inc()
	}

	return c.JSON(http.StatusOK, result)
}

// UpdateShareComment replaces the comment on an already-shared purchase
func (h *PurchaseHandler) UpdateShareComment(c echo.Context) error {
	userID := middleware.UserID(c)
	purchaseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateShareCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.sharingService.UpdateShareComment(purchaseID, userID, req.Comment)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update comment")
	}
	if !result.Success {
		if result.Message == services.MsgPurchaseNotAccessible {
			return echo.NewHTTPError(http.StatusNotFound, result.Message)
		}
		return echo.NewHTTPError(http.StatusBadRequest, result.Message)
	}
	return c.JSON(http.StatusOK, result)
}

// BulkShare applies one sharing transition to a set of owned purchases
func (h *PurchaseHandler) BulkShare(c echo.Context) error {
	userID := middleware.UserID(c)

	var req models.BulkShareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.sharingService.BulkUpdateSharing(userID, req.PurchaseIDs, req.IsShared)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update sharing")
	}

	h.notifications.DeliverShareNotifications(userID, result.NotifyTargets)
	return c.JSON(http.StatusOK, result)
}

// GetSharingStats reports the caller's share ratio
func (h *PurchaseHandler) GetSharingStats(c echo.Context) error {
	stats, err := h.sharingService.GetSharingStats(middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// ListSharedPurchases returns the caller's own shared purchases
func (h *PurchaseHandler) ListSharedPurchases(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	purchases, err := h.sharingService.GetUserSharedPurchases(middleware.UserID(c), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list shared purchases")
	}
	return c.JSON(http.StatusOK, purchases)
}
