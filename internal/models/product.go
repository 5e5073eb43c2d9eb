package models

import "gorm.io/gorm"

// Product is a catalog item imported from an external store. Created lazily
// during purchase sync; immutable afterwards except for image backfill.
type Product struct {
	gorm.Model  `json:"-"`
	ID          uint    `json:"id" gorm:"primaryKey"`
	ExternalID  string  `json:"external_id" gorm:"uniqueIndex:idx_product_external"`
	Source      string  `json:"source" gorm:"uniqueIndex:idx_product_external"` // shopify, woocommerce
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency" gorm:"size:3"`
	Category    string  `json:"category" gorm:"index"`
}
