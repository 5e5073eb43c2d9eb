package services

import (
	"errors"
	"fmt"

	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/repositories"
	"gorm.io/gorm"
)

// ConnectionService manages the friendship graph: requests, accept/reject,
// unfriend, and friend listings.
type ConnectionService struct {
	connectionRepo repositories.ConnectionRepository
	userRepo       repositories.UserRepository
	notifications  *NotificationService
}

func NewConnectionService(
	connectionRepo repositories.ConnectionRepository,
	userRepo repositories.UserRepository,
	notifications *NotificationService,
) *ConnectionService {
	return &ConnectionService{
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
		notifications:  notifications,
	}
}

// SendRequest creates a pending connection toward friendID and notifies the
// recipient.
func (s *ConnectionService) SendRequest(userID, friendID uint) (*models.Connection, error) {
	if userID == friendID {
		return nil, fmt.Errorf("cannot send a friend request to yourself")
	}
	if _, err := s.userRepo.GetUserByID(friendID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	conn := &models.Connection{UserID: userID, FriendID: friendID}
	if err := s.connectionRepo.SendRequest(conn); err != nil {
		return nil, err
	}
	s.notifications.NotifyFriendRequest(userID, friendID)
	return conn, nil
}

// Respond accepts or rejects a pending request. Only the recipient may
// respond, and only while the request is pending.
func (s *ConnectionService) Respond(connectionID, userID uint, status string) (*models.Connection, error) {
	conn, err := s.connectionRepo.GetByID(connectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("friend request not found")
		}
		return nil, err
	}
	if conn.FriendID != userID {
		// Same generic message as missing; requests are not enumerable.
		return nil, fmt.Errorf("friend request not found")
	}
	if conn.Status != models.ConnectionStatusPending {
		return nil, fmt.Errorf("friend request already handled")
	}

	if err := s.connectionRepo.UpdateStatus(connectionID, status); err != nil {
		return nil, err
	}
	conn.Status = status
	if status == models.ConnectionStatusAccepted {
		s.notifications.NotifyFriendAccept(userID, conn.UserID)
	}
	return conn, nil
}

// Unfriend removes the connection between the two users in whichever
// direction it was stored.
func (s *ConnectionService) Unfriend(userID, friendID uint) error {
	return s.connectionRepo.DeleteBetween(userID, friendID)
}

func (s *ConnectionService) ListFriends(userID uint) ([]models.User, error) {
	return s.connectionRepo.ListFriends(userID)
}

func (s *ConnectionService) ListPending(userID uint) ([]models.Connection, error) {
	return s.connectionRepo.ListPendingFor(userID)
}
