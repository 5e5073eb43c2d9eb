package models

import "time"

const (
	NotificationTypeShare         = "share"
	NotificationTypeLike          = "like"
	NotificationTypeComment       = "comment"
	NotificationTypeFriendRequest = "friend_request"
	NotificationTypeFriendAccept  = "friend_accept"
)

// Notification is denormalized; nothing changes after creation except IsRead.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	PurchaseID  uint      `json:"purchase_id,omitempty" gorm:"index"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
