package models

import "gorm.io/gorm"

const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
	ConnectionStatusRejected = "rejected"
)

// Connection is a single directed edge UserID -> FriendID. Friendship checks
// always query it symmetrically; no mirrored reverse row is inserted.
type Connection struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"index;uniqueIndex:idx_connection_pair"`
	FriendID uint   `json:"friend_id" gorm:"index;uniqueIndex:idx_connection_pair"`
	Status   string `json:"status" gorm:"type:varchar(20);default:'pending'"`
}

// CreateConnectionRequest defines the request body for sending a friend request
type CreateConnectionRequest struct {
	FriendID uint `json:"friend_id" validate:"required"`
}

// UpdateConnectionRequest defines the request body for accepting/rejecting a friend request
type UpdateConnectionRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}
