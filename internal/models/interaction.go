package models

import "gorm.io/gorm"

const (
	InteractionTypeLike    = "like"
	InteractionTypeComment = "comment"
	InteractionTypeSave    = "save"
)

// Interaction joins (user, purchase, type). Existence means active. The
// partial unique index makes concurrent like/save inserts collide at the
// storage layer instead of relying on the preceding read; comments are
// append-only and exempt from it.
type Interaction struct {
	gorm.Model
	UserID     uint   `json:"user_id" gorm:"index;uniqueIndex:idx_interaction_unique,where:type <> 'comment'"`
	PurchaseID uint   `json:"purchase_id" gorm:"index;uniqueIndex:idx_interaction_unique"`
	Type       string `json:"type" gorm:"size:10;uniqueIndex:idx_interaction_unique"`
	Content    string `json:"content,omitempty"` // populated for comments only
}

// CreateCommentRequest defines the request body for commenting on a purchase
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
