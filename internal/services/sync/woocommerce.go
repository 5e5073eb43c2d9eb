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

// WooCommerceClient pulls orders from the WooCommerce REST API using
// consumer-key basic auth.
type WooCommerceClient struct {
	httpClient *http.Client
}

func NewWooCommerceClient() *WooCommerceClient {
	return &WooCommerceClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *WooCommerceClient) Platform() string {
	return models.PlatformWooCommerce
}

type wooOrder struct {
	ID          int64         `json:"id"`
	DateCreated string        `json:"date_created"`
	Currency    string        `json:"currency"`
	LineItems   []wooLineItem `json:"line_items"`
}

type wooLineItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     any    `json:"price"` // Woo serializes this as number or string depending on version
	Quantity  int    `json:"quantity"`
}

func (c *WooCommerceClient) FetchOrders(ctx context.Context, integration *models.StoreIntegration, since *time.Time) ([]VendorOrder, error) {
	endpoint := strings.TrimSuffix(integration.StoreURL, "/") + "/wp-json/wc/v3/orders"

	params := url.Values{}
	params.Set("per_page", "100")
	if since != nil {
		params.Set("after", since.Format(time.RFC3339))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(integration.ConsumerKey, integration.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("woocommerce request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("woocommerce returned status %d", resp.StatusCode)
	}

	var parsed []wooOrder
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding woocommerce orders: %w", err)
	}

	orders := make([]VendorOrder, 0, len(parsed))
	for _, o := range parsed {
		placedAt, _ := time.Parse("2006-01-02T15:04:05", o.DateCreated)
		raw, _ := json.Marshal(o)
		order := VendorOrder{
			OrderID:  strconv.FormatInt(o.ID, 10),
			PlacedAt: placedAt,
			Currency: o.Currency,
			Raw:      string(raw),
		}
		for _, item := range o.LineItems {
			order.Items = append(order.Items, VendorItem{
				ExternalID: strconv.FormatInt(item.ProductID, 10),
				Title:      item.Name,
				Price:      wooPrice(item.Price),
				Quantity:   item.Quantity,
			})
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func wooPrice(v any) float64 {
	switch p := v.(type) {
	case float64:
		return p
	case string:
		f, _ := strconv.ParseFloat(p, 64)
		return f
	default:
		return 0
	}
}
