package models

import (
	"time"

	"gorm.io/gorm"
)

// Purchase is the central sharable entity. Deduplicated during store sync by
// (user_id, order_id, store_name). ShareComment must be nil whenever
// IsShared is false; every unshare path clears it.
type Purchase struct {
	gorm.Model   `json:"-"`
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;uniqueIndex:idx_purchase_order"`
	ProductID    uint      `json:"product_id" gorm:"index"`
	Product      *Product  `json:"product,omitempty"`
	PurchaseDate time.Time `json:"purchase_date" gorm:"index"`
	StoreName    string    `json:"store_name" gorm:"uniqueIndex:idx_purchase_order"`
	OrderID      string    `json:"order_id" gorm:"uniqueIndex:idx_purchase_order"`
	Quantity     int       `json:"quantity" gorm:"default:1"`
	TotalPrice   float64   `json:"total_price"`
	Currency     string    `json:"currency" gorm:"size:3"`
	IsShared     bool      `json:"is_shared" gorm:"index;default:false"`
	ShareComment *string   `json:"share_comment"`
}

type ShareRequest struct {
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

type UpdateShareCommentRequest struct {
	Comment string `json:"comment" validate:"required,max=1000"`
}

type BulkShareRequest struct {
	PurchaseIDs []uint `json:"purchase_ids" validate:"required,min=1,dive,required"`
	IsShared    bool   `json:"is_shared"`
}

// PurchaseListQuery captures the supported filters for GET /purchases.
type PurchaseListQuery struct {
	SharedOnly bool
	Category   string
	Store      string
	SortBy     string // purchase_date, price, title
	SortOrder  string // asc, desc
	Page       int
	PerPage    int
}
