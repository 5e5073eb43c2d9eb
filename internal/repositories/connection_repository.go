package repositories

import (
	"fmt"

	"github.com/buyroll/backend/internal/models"
	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for friendship data operations.
// A friendship is exactly one directed row; every check queries both
// directions rather than materializing a mirror.
type ConnectionRepository interface {
	SendRequest(conn *models.Connection) error
	GetByID(id uint) (*models.Connection, error)
	GetBetween(userID, friendID uint) (*models.Connection, error)
	ListPendingFor(userID uint) ([]models.Connection, error)
	UpdateStatus(id uint, status string) error
	DeleteBetween(userID, friendID uint) error
	AreFriends(userID, friendID uint) (bool, error)
	GetFriendIDs(userID uint) ([]uint, error)
	ListFriends(userID uint) ([]models.User, error)
}

// PostgresConnectionRepository implements ConnectionRepository for PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

// SendRequest creates a new friend request unless one already exists in
// either direction.
func (r *PostgresConnectionRepository) SendRequest(conn *models.Connection) error {
	var existing models.Connection
	err := r.db.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		conn.UserID, conn.FriendID, conn.FriendID, conn.UserID).First(&existing).Error

	if err == nil {
		if existing.Status == models.ConnectionStatusPending {
			return fmt.Errorf("a pending friend request already exists between these users")
		} else if existing.Status == models.ConnectionStatusAccepted {
			return fmt.Errorf("users are already friends")
		}
		// A rejected row is replaced so the request can be re-sent.
		if err := r.db.Unscoped().Delete(&existing).Error; err != nil {
			return err
		}
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	conn.Status = models.ConnectionStatusPending
	return r.db.Create(conn).Error
}

func (r *PostgresConnectionRepository) GetByID(id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.First(&conn, id).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *PostgresConnectionRepository) GetBetween(userID, friendID uint) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, friendID, friendID, userID).First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// ListPendingFor retrieves pending requests addressed to the user
func (r *PostgresConnectionRepository) ListPendingFor(userID uint) ([]models.Connection, error) {
	var requests []models.Connection
	if err := r.db.Where("friend_id = ? AND status = ?", userID, models.ConnectionStatusPending).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PostgresConnectionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Connection{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PostgresConnectionRepository) DeleteBetween(userID, friendID uint) error {
	res := r.db.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, friendID, friendID, userID).Delete(&models.Connection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("connection not found")
	}
	return nil
}

func (r *PostgresConnectionRepository) AreFriends(userID, friendID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Connection{}).
		Where("((user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)) AND status = ?",
			userID, friendID, friendID, userID, models.ConnectionStatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// GetFriendIDs retrieves the ids of all accepted friends for a user
func (r *PostgresConnectionRepository) GetFriendIDs(userID uint) ([]uint, error) {
	var conns []models.Connection
	err := r.db.Where("(user_id = ? OR friend_id = ?) AND status = ?",
		userID, userID, models.ConnectionStatusAccepted).Find(&conns).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(conns))
	for _, c := range conns {
		if c.UserID == userID {
			ids = append(ids, c.FriendID)
		} else {
			ids = append(ids, c.UserID)
		}
	}
	return ids, nil
}

// ListFriends retrieves all accepted friends for a user
func (r *PostgresConnectionRepository) ListFriends(userID uint) ([]models.User, error) {
	ids, err := r.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	friends := []models.User{}
	if len(ids) == 0 {
		return friends, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}
