package repositories

import (
	"fmt"

	"github.com/buyroll/backend/internal/models"
	"gorm.io/gorm"
)

// InteractionRepository defines the interface for like/comment/save operations
type InteractionRepository interface {
	Create(interaction *models.Interaction) error
	Delete(userID, purchaseID uint, interactionType string) error
	Exists(userID, purchaseID uint, interactionType string) (bool, error)
	CountByPurchase(purchaseID uint, interactionType string) (int64, error)
	CountByPurchases(purchaseIDs []uint, interactionType string) (map[uint]int64, error)
	ExistsByPurchases(userID uint, purchaseIDs []uint, interactionType string) (map[uint]bool, error)
	ListComments(purchaseID uint) ([]models.Interaction, error)
	ListCommentsByPurchases(purchaseIDs []uint) (map[uint][]models.Interaction, error)
	ListSaved(userID uint) ([]models.Interaction, error)
}

// PostgresInteractionRepository implements InteractionRepository for PostgreSQL
type PostgresInteractionRepository struct {
	db *gorm.DB
}

func NewPostgresInteractionRepository(db *gorm.DB) *PostgresInteractionRepository {
	return &PostgresInteractionRepository{db: db}
}

// Create inserts the interaction. For like/save the partial unique index on
// (user_id, purchase_id, type) turns a concurrent duplicate into
// gorm.ErrDuplicatedKey, which callers treat as "already exists".
func (r *PostgresInteractionRepository) Create(interaction *models.Interaction) error {
	return r.db.Create(interaction).Error
}

func (r *PostgresInteractionRepository) Delete(userID, purchaseID uint, interactionType string) error {
	res := r.db.Where("user_id = ? AND purchase_id = ? AND type = ?", userID, purchaseID, interactionType).
		Delete(&models.Interaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s not found", interactionType)
	}
	return nil
}

func (r *PostgresInteractionRepository) Exists(userID, purchaseID uint, interactionType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Interaction{}).
		Where("user_id = ? AND purchase_id = ? AND type = ?", userID, purchaseID, interactionType).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresInteractionRepository) CountByPurchase(purchaseID uint, interactionType string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Interaction{}).
		Where("purchase_id = ? AND type = ?", purchaseID, interactionType).
		Count(&count).Error
	return count, err
}

func (r *PostgresInteractionRepository) CountByPurchases(purchaseIDs []uint, interactionType string) (map[uint]int64, error) {
	result := make(map[uint]int64)
	if len(purchaseIDs) == 0 {
		return result, nil
	}
	rows := []struct {
		PurchaseID uint
		Count      int64
	}{}
	err := r.db.Model(&models.Interaction{}).
		Select("purchase_id, COUNT(*) as count").
		Where("purchase_id IN ? AND type = ?", purchaseIDs, interactionType).
		Group("purchase_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PurchaseID] = row.Count
	}
	return result, nil
}

func (r *PostgresInteractionRepository) ExistsByPurchases(userID uint, purchaseIDs []uint, interactionType string) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(purchaseIDs) == 0 {
		return result, nil
	}
	var interactions []models.Interaction
	err := r.db.Where("user_id = ? AND purchase_id IN ? AND type = ?", userID, purchaseIDs, interactionType).
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	for _, i := range interactions {
		result[i.PurchaseID] = true
	}
	return result, nil
}

func (r *PostgresInteractionRepository) ListComments(purchaseID uint) ([]models.Interaction, error) {
	var comments []models.Interaction
	err := r.db.Where("purchase_id = ? AND type = ?", purchaseID, models.InteractionTypeComment).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *PostgresInteractionRepository) ListCommentsByPurchases(purchaseIDs []uint) (map[uint][]models.Interaction, error) {
	result := make(map[uint][]models.Interaction)
	if len(purchaseIDs) == 0 {
		return result, nil
	}
	var comments []models.Interaction
	err := r.db.Where("purchase_id IN ? AND type = ?", purchaseIDs, models.InteractionTypeComment).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		result[c.PurchaseID] = append(result[c.PurchaseID], c)
	}
	return result, nil
}

func (r *PostgresInteractionRepository) ListSaved(userID uint) ([]models.Interaction, error) {
	var saved []models.Interaction
	err := r.db.Where("user_id = ? AND type = ?", userID, models.InteractionTypeSave).
		Order("created_at DESC").
		Find(&saved).Error
	return saved, err
}
