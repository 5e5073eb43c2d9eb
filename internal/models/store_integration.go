package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PlatformShopify     = "shopify"
	PlatformWooCommerce = "woocommerce"
)

// StoreIntegration is one connected external store per user.
type StoreIntegration struct {
	gorm.Model  `json:"-"`
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"index;uniqueIndex:idx_integration_store"`
	Platform    string     `json:"platform" gorm:"size:20;uniqueIndex:idx_integration_store"`
	StoreURL    string     `json:"store_url" gorm:"uniqueIndex:idx_integration_store"`
	AccessToken string     `json:"-"` // API credential, never serialized
	ConsumerKey string     `json:"-"` // WooCommerce basic-auth key
	Active      bool       `json:"active" gorm:"default:true"`
	LastSync    *time.Time `json:"last_sync"`
}

type CreateIntegrationRequest struct {
	Platform    string `json:"platform" validate:"required,oneof=shopify woocommerce"`
	StoreURL    string `json:"store_url" validate:"required,url"`
	AccessToken string `json:"access_token" validate:"required"`
	ConsumerKey string `json:"consumer_key,omitempty"`
}
