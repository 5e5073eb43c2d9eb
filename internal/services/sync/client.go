package sync

import (
	"context"
	"time"

	"github.com/buyroll/backend/internal/models"
)

// VendorItem is one line item of a vendor order, already mapped to the
// fields the product catalog keeps.
type VendorItem struct {
	ExternalID string
	Title      string
	Price      float64
	Quantity   int
	Category   string
	ImageURL   string
}

// VendorOrder is a store order normalized from a vendor API response. Raw
// holds the vendor JSON verbatim for the archive.
type VendorOrder struct {
	OrderID  string
	PlacedAt time.Time
	Currency string
	Items    []VendorItem
	Raw      string
}

// StoreClient fetches orders from one vendor platform.
type StoreClient interface {
	Platform() string
	FetchOrders(ctx context.Context, integration *models.StoreIntegration, since *time.Time) ([]VendorOrder, error)
}
