package repositories

import (
	"github.com/buyroll/backend/internal/models"
	"gorm.io/gorm"
)

// PurchaseRepository defines the interface for purchase data operations
type PurchaseRepository interface {
	CreatePurchase(purchase *models.Purchase) error
	GetPurchaseByID(id uint) (*models.Purchase, error)
	SavePurchase(purchase *models.Purchase) error
	ListByUser(userID uint, q models.PurchaseListQuery) ([]models.Purchase, int64, error)
	ListOwnedIn(userID uint, ids []uint) ([]models.Purchase, error)
	ListSharedByUser(userID uint, limit int) ([]models.Purchase, error)
	ListSharedByUsers(ownerIDs []uint, category string, offset, limit int) ([]models.Purchase, int64, error)
	ListByIDs(ids []uint) ([]models.Purchase, error)
	CountByUser(userID uint) (total int64, shared int64, err error)
	ExistsByOrder(userID uint, orderID, storeName string) (bool, error)
}

// PostgresPurchaseRepository implements PurchaseRepository for PostgreSQL
type PostgresPurchaseRepository struct {
	db *gorm.DB
}

func NewPostgresPurchaseRepository(db *gorm.DB) *PostgresPurchaseRepository {
	return &PostgresPurchaseRepository{db: db}
}

func (r *PostgresPurchaseRepository) CreatePurchase(purchase *models.Purchase) error {
	return r.db.Create(purchase).Error
}

func (r *PostgresPurchaseRepository) GetPurchaseByID(id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.Preload("Product").First(&purchase, id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *PostgresPurchaseRepository) SavePurchase(purchase *models.Purchase) error {
	// Save skips the association so a stale preloaded product is never
	// written back; ShareComment must round-trip nil, hence Select.
	return r.db.Omit("Product").Select("*").Save(purchase).Error
}

func (r *PostgresPurchaseRepository) ListByUser(userID uint, q models.PurchaseListQuery) ([]models.Purchase, int64, error) {
	tx := r.db.Model(&models.Purchase{}).Where("purchases.user_id = ?", userID)
	if q.SharedOnly {
		tx = tx.Where("purchases.is_shared = ?", true)
	}
	if q.Store != "" {
		tx = tx.Where("purchases.store_name = ?", q.Store)
	}
	if q.Category != "" {
		tx = tx.Joins("JOIN products ON products.id = purchases.product_id").
			Where("products.category = ?", q.Category)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "purchases.purchase_date"
	switch q.SortBy {
	case "price":
		order = "purchases.total_price"
	case "title":
		tx = tx.Joins("JOIN products p2 ON p2.id = purchases.product_id")
		order = "p2.title"
	}
	dir := " DESC"
	if q.SortOrder == "asc" {
		dir = " ASC"
	}

	var purchases []models.Purchase
	err := tx.Preload("Product").
		Order(order + dir).
		Offset((q.Page - 1) * q.PerPage).Limit(q.PerPage).
		Find(&purchases).Error
	return purchases, total, err
}

func (r *PostgresPurchaseRepository) ListOwnedIn(userID uint, ids []uint) ([]models.Purchase, error) {
	purchases := []models.Purchase{}
	if len(ids) == 0 {
		return purchases, nil
	}
	err := r.db.Where("user_id = ? AND id IN ?", userID, ids).Find(&purchases).Error
	return purchases, err
}

func (r *PostgresPurchaseRepository) ListSharedByUser(userID uint, limit int) ([]models.Purchase, error) {
	var purchases []models.Purchase
	tx := r.db.Preload("Product").
		Where("user_id = ? AND is_shared = ?", userID, true).
		Order("purchase_date DESC, id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Find(&purchases).Error
	return purchases, err
}

// ListSharedByUsers backs the feed. Callers must short-circuit on an empty
// owner set; an empty IN clause is a programming error here. A non-positive
// limit means no limit.
func (r *PostgresPurchaseRepository) ListSharedByUsers(ownerIDs []uint, category string, offset, limit int) ([]models.Purchase, int64, error) {
	tx := r.db.Model(&models.Purchase{}).
		Where("purchases.user_id IN ? AND purchases.is_shared = ?", ownerIDs, true)
	if category != "" {
		tx = tx.Joins("JOIN products ON products.id = purchases.product_id").
			Where("products.category = ?", category)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx = tx.Preload("Product").
		Order("purchases.purchase_date DESC, purchases.id DESC").
		Offset(offset)
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var purchases []models.Purchase
	err := tx.Find(&purchases).Error
	return purchases, total, err
}

func (r *PostgresPurchaseRepository) ListByIDs(ids []uint) ([]models.Purchase, error) {
	purchases := []models.Purchase{}
	if len(ids) == 0 {
		return purchases, nil
	}
	err := r.db.Preload("Product").Where("id IN ?", ids).Find(&purchases).Error
	return purchases, err
}

func (r *PostgresPurchaseRepository) CountByUser(userID uint) (int64, int64, error) {
	var total, shared int64
	if err := r.db.Model(&models.Purchase{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&models.Purchase{}).Where("user_id = ? AND is_shared = ?", userID, true).Count(&shared).Error; err != nil {
		return 0, 0, err
	}
	return total, shared, nil
}

func (r *PostgresPurchaseRepository) ExistsByOrder(userID uint, orderID, storeName string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).
		Where("user_id = ? AND order_id = ? AND store_name = ?", userID, orderID, storeName).
		Count(&count).Error
	return count > 0, err
}
