package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/buyroll/backend/internal/models"
)

const shopifyAPIVersion = "2023-10"

// ShopifyClient pulls orders from the Shopify Admin REST API.
type ShopifyClient struct {
	httpClient *http.Client
}

func NewShopifyClient() *ShopifyClient {
	return &ShopifyClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ShopifyClient) Platform() string {
	return models.PlatformShopify
}

type shopifyOrdersResponse struct {
	Orders []shopifyOrder `json:"orders"`
}

type shopifyOrder struct {
	ID        int64             `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Currency  string            `json:"currency"`
	LineItems []shopifyLineItem `json:"line_items"`
}

type shopifyLineItem struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

func (c *ShopifyClient) FetchOrders(ctx context.Context, integration *models.StoreIntegration, since *time.Time) ([]VendorOrder, error) {
	endpoint := fmt.Sprintf("%s/admin/api/%s/orders.json",
		strings.TrimSuffix(integration.StoreURL, "/"), shopifyAPIVersion)

	params := url.Values{}
	params.Set("status", "any")
	params.Set("limit", "250")
	if since != nil {
		params.Set("created_at_min", since.Format(time.RFC3339))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", integration.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify returned status %d", resp.StatusCode)
	}

	var parsed shopifyOrdersResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding shopify orders: %w", err)
	}

	orders := make([]VendorOrder, 0, len(parsed.Orders))
	for _, o := range parsed.Orders {
		raw, _ := json.Marshal(o)
		order := VendorOrder{
			OrderID:  strconv.FormatInt(o.ID, 10),
			PlacedAt: o.CreatedAt,
			Currency: o.Currency,
			Raw:      string(raw),
		}
		for _, item := range o.LineItems {
			price, _ := strconv.ParseFloat(item.Price, 64)
			order.Items = append(order.Items, VendorItem{
				ExternalID: strconv.FormatInt(item.ProductID, 10),
				Title:      item.Title,
				Price:      price,
				Quantity:   item.Quantity,
			})
		}
		orders = append(orders, order)
	}
	return orders, nil
}
