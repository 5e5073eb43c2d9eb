package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/repositories"
	"github.com/buyroll/backend/internal/services"
	"gorm.io/gorm"
)

// Syncer imports purchases from connected stores. It runs on a fixed
// interval over every active integration and can also sync one integration
// on demand. Per-order failures are logged and the sync continues.
type Syncer struct {
	integrationRepo repositories.StoreIntegrationRepository
	purchaseRepo    repositories.PurchaseRepository
	productRepo     repositories.ProductRepository
	archiveRepo     repositories.OrderArchiveRepository
	analytics       *services.AnalyticsService
	clients         map[string]StoreClient
	interval        time.Duration
}

func NewSyncer(
	integrationRepo repositories.StoreIntegrationRepository,
	purchaseRepo repositories.PurchaseRepository,
	productRepo repositories.ProductRepository,
	archiveRepo repositories.OrderArchiveRepository,
	analytics *services.AnalyticsService,
	interval time.Duration,
	clients ...StoreClient,
) *Syncer {
	byPlatform := make(map[string]StoreClient, len(clients))
	for _, c := range clients {
		byPlatform[c.Platform()] = c
	}
	return &Syncer{
		integrationRepo: integrationRepo,
		purchaseRepo:    purchaseRepo,
		productRepo:     productRepo,
		archiveRepo:     archiveRepo,
		analytics:       analytics,
		clients:         byPlatform,
		interval:        interval,
	}
}

// Run polls every active integration on the configured interval until the
// context is cancelled. It runs one pass immediately at startup.
func (s *Syncer) Run(ctx context.Context) {
	s.RunOnce(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("Store sync loop stopped.")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce syncs all active integrations sequentially. A failing integration
// does not stop the others.
func (s *Syncer) RunOnce(ctx context.Context) {
	integrations, err := s.integrationRepo.ListActive()
	if err != nil {
		log.Printf("listing active integrations failed: %v", err)
		return
	}
	for i := range integrations {
		if err := s.SyncIntegration(ctx, &integrations[i]); err != nil {
			log.Printf("sync of integration %d failed: %v", integrations[i].ID, err)
		}
	}
}

// SyncIntegration fetches orders placed since the last sync, archives the
// raw payloads, and imports anything not already present. Purchases are
// deduplicated by (user, order key, store).
func (s *Syncer) SyncIntegration(ctx context.Context, integration *models.StoreIntegration) error {
	client, ok := s.clients[integration.Platform]
	if !ok {
		return fmt.Errorf("no client for platform %q", integration.Platform)
	}

	orders, err := client.FetchOrders(ctx, integration, integration.LastSync)
	if err != nil {
		return err
	}

	storeName := storeNameFromURL(integration.StoreURL)
	imported := 0
	for _, order := range orders {
		if err := s.archiveOrder(ctx, integration, order); err != nil {
			log.Printf("archiving order %s failed: %v", order.OrderID, err)
		}
		n, err := s.importOrder(integration, storeName, order)
		if err != nil {
			log.Printf("importing order %s failed: %v", order.OrderID, err)
			continue
		}
		imported += n
	}

	now := time.Now()
	if err := s.integrationRepo.UpdateLastSync(integration.ID, now); err != nil {
		log.Printf("updating last_sync for integration %d failed: %v", integration.ID, err)
	}
	if imported > 0 {
		s.analytics.Invalidate(integration.UserID)
	}
	log.Printf("Synced integration %d (%s): %d orders, %d purchases imported.",
		integration.ID, integration.Platform, len(orders), imported)
	return nil
}

func (s *Syncer) archiveOrder(ctx context.Context, integration *models.StoreIntegration, order VendorOrder) error {
	return s.archiveRepo.Archive(ctx, &repositories.ArchivedOrder{
		UserID:        integration.UserID,
		IntegrationID: integration.ID,
		Platform:      integration.Platform,
		OrderID:       order.OrderID,
		Payload:       order.Raw,
		FetchedAt:     time.Now(),
	})
}

// importOrder creates one purchase per line item. The order key carries the
// item's external id so multi-item orders do not collide on the dedup index.
func (s *Syncer) importOrder(integration *models.StoreIntegration, storeName string, order VendorOrder) (int, error) {
	imported := 0
	for _, item := range order.Items {
		orderKey := order.OrderID
		if len(order.Items) > 1 {
			orderKey = fmt.Sprintf("%s-%s", order.OrderID, item.ExternalID)
		}

		exists, err := s.purchaseRepo.ExistsByOrder(integration.UserID, orderKey, storeName)
		if err != nil {
			return imported, err
		}
		if exists {
			continue
		}

		product, err := s.ensureProduct(integration.Platform, order.Currency, item)
		if err != nil {
			return imported, err
		}

		purchase := &models.Purchase{
			UserID:       integration.UserID,
			ProductID:    product.ID,
			PurchaseDate: order.PlacedAt,
			StoreName:    storeName,
			OrderID:      orderKey,
			Quantity:     item.Quantity,
			TotalPrice:   item.Price * float64(item.Quantity),
			Currency:     order.Currency,
		}
		if err := s.purchaseRepo.CreatePurchase(purchase); err != nil {
			// A concurrent sync may have won the insert; that is still a dedup hit.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// ensureProduct lazily creates the catalog entry for a vendor item. Existing
// products are immutable apart from image backfill.
func (s *Syncer) ensureProduct(source, currency string, item VendorItem) (*models.Product, error) {
	product, err := s.productRepo.GetProductByExternal(item.ExternalID, source)
	if err == nil {
		if product.ImageURL == "" && item.ImageURL != "" {
			if err := s.productRepo.BackfillImage(product.ID, item.ImageURL); err != nil {
				log.Printf("image backfill for product %d failed: %v", product.ID, err)
			}
		}
		return product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product = &models.Product{
		ExternalID: item.ExternalID,
		Source:     source,
		Title:      item.Title,
		Price:      item.Price,
		Currency:   currency,
		Category:   item.Category,
		ImageURL:   item.ImageURL,
	}
	if err := s.productRepo.CreateProduct(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.productRepo.GetProductByExternal(item.ExternalID, source)
		}
		return nil, err
	}
	return product, nil
}

func storeNameFromURL(storeURL string) string {
	if u, err := url.Parse(storeURL); err == nil && u.Host != "" {
		return u.Host
	}
	return storeURL
}
