package services

import (
	"fmt"
	"log"

	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/repositories"
)

// NotificationService creates and reads notification rows. Delivery failures
// are logged and skipped; nothing here is retried or rolled back.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// DeliverShareNotifications writes one notification per target computed by
// the sharing core. A failed write skips that target and moves on; the share
// itself has already committed.
func (s *NotificationService) DeliverShareNotifications(actorID uint, targets []NotifyTarget) {
	if len(targets) == 0 {
		return
	}
	actorName := s.actorName(actorID)
	for _, target := range targets {
		n := &models.Notification{
			Type:        models.NotificationTypeShare,
			ActorID:     actorID,
			RecipientID: target.RecipientID,
			PurchaseID:  target.PurchaseID,
			Message:     fmt.Sprintf("%s shared a purchase", actorName),
		}
		if err := s.notificationRepo.CreateNotification(n); err != nil {
			log.Printf("share notification for user %d failed: %v", target.RecipientID, err)
		}
	}
}

// NotifyLike notifies the purchase owner about a like. Self-likes and owners
// who disabled like alerts produce nothing.
func (s *NotificationService) NotifyLike(actorID, ownerID, purchaseID uint) {
	if actorID == ownerID {
		return
	}
	owner, err := s.userRepo.GetUserByID(ownerID)
	if err != nil {
		log.Printf("like notification: owner %d lookup failed: %v", ownerID, err)
		return
	}
	if !owner.Settings.Notifications.LikeAlertsOrDefault() {
		return
	}
	n := &models.Notification{
		Type:        models.NotificationTypeLike,
		ActorID:     actorID,
		RecipientID: ownerID,
		PurchaseID:  purchaseID,
		Message:     fmt.Sprintf("%s liked your purchase", s.actorName(actorID)),
	}
	if err := s.notificationRepo.CreateNotification(n); err != nil {
		log.Printf("like notification for user %d failed: %v", ownerID, err)
	}
}

// DeleteLikeNotification removes the notification for a like that was undone.
func (s *NotificationService) DeleteLikeNotification(actorID, purchaseID uint) {
	if err := s.notificationRepo.DeleteByActorPurchase(models.NotificationTypeLike, actorID, purchaseID); err != nil {
		log.Printf("deleting like notification failed: %v", err)
	}
}

// NotifyComment notifies the purchase owner about a new comment.
func (s *NotificationService) NotifyComment(actorID, ownerID, purchaseID uint) {
	if actorID == ownerID {
		return
	}
	owner, err := s.userRepo.GetUserByID(ownerID)
	if err != nil {
		log.Printf("comment notification: owner %d lookup failed: %v", ownerID, err)
		return
	}
	if !owner.Settings.Notifications.CommentAlertsOrDefault() {
		return
	}
	n := &models.Notification{
		Type:        models.NotificationTypeComment,
		ActorID:     actorID,
		RecipientID: ownerID,
		PurchaseID:  purchaseID,
		Message:     fmt.Sprintf("%s commented on your purchase", s.actorName(actorID)),
	}
	if err := s.notificationRepo.CreateNotification(n); err != nil {
		log.Printf("comment notification for user %d failed: %v", ownerID, err)
	}
}

// NotifyFriendRequest tells a user someone wants to connect.
func (s *NotificationService) NotifyFriendRequest(actorID, recipientID uint) {
	n := &models.Notification{
		Type:        models.NotificationTypeFriendRequest,
		ActorID:     actorID,
		RecipientID: recipientID,
		Message:     fmt.Sprintf("%s sent you a friend request", s.actorName(actorID)),
	}
	if err := s.notificationRepo.CreateNotification(n); err != nil {
		log.Printf("friend request notification for user %d failed: %v", recipientID, err)
	}
}

// NotifyFriendAccept tells the original sender the request was accepted.
func (s *NotificationService) NotifyFriendAccept(actorID, recipientID uint) {
	n := &models.Notification{
		Type:        models.NotificationTypeFriendAccept,
		ActorID:     actorID,
		RecipientID: recipientID,
		Message:     fmt.Sprintf("%s accepted your friend request", s.actorName(actorID)),
	}
	if err := s.notificationRepo.CreateNotification(n); err != nil {
		log.Printf("friend accept notification for user %d failed: %v", recipientID, err)
	}
}

func (s *NotificationService) List(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	return s.notificationRepo.GetByRecipientID(recipientID, page, limit)
}

func (s *NotificationService) UnreadCount(recipientID uint) (int64, error) {
	return s.notificationRepo.GetUnreadCount(recipientID)
}

func (s *NotificationService) MarkRead(notificationID, recipientID uint) error {
	return s.notificationRepo.MarkAsRead(notificationID, recipientID)
}

func (s *NotificationService) MarkAllRead(recipientID uint) error {
	return s.notificationRepo.MarkAllAsRead(recipientID)
}

func (s *NotificationService) actorName(actorID uint) string {
	actor, err := s.userRepo.GetUserByID(actorID)
	if err != nil {
		return "Someone"
	}
	return actor.Name
}
