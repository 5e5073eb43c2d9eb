package repositories

import (
	"time"

	"github.com/buyroll/backend/internal/models"
	"gorm.io/gorm"
)

type SpendingSummary struct {
	TotalSpent      float64 `json:"total_spent"`
	PurchaseCount   int64   `json:"purchase_count"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	SharedPurchases int64   `json:"shared_purchases"`
}

type CategorySpending struct {
	Category   string  `json:"category"`
	TotalSpent float64 `json:"total_spent"`
	Count      int64   `json:"count"`
}

type MonthlySpending struct {
	Month      string  `json:"month"` // YYYY-MM
	TotalSpent float64 `json:"total_spent"`
	Count      int64   `json:"count"`
}

type StoreSpending struct {
	StoreName  string  `json:"store_name"`
	TotalSpent float64 `json:"total_spent"`
	Count      int64   `json:"count"`
}

// AnalyticsRepository defines the aggregate spending queries
type AnalyticsRepository interface {
	SpendingSummary(userID uint) (SpendingSummary, error)
	SpendingByCategory(userID uint) ([]CategorySpending, error)
	SpendingByMonth(userID uint, months int) ([]MonthlySpending, error)
	SpendingByStore(userID uint) ([]StoreSpending, error)
}

// PostgresAnalyticsRepository implements AnalyticsRepository for PostgreSQL
type PostgresAnalyticsRepository struct {
	db *gorm.DB
}

func NewPostgresAnalyticsRepository(db *gorm.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

func (r *PostgresAnalyticsRepository) SpendingSummary(userID uint) (SpendingSummary, error) {
	var summary SpendingSummary
	err := r.db.Model(&models.Purchase{}).
		Select("COALESCE(SUM(total_price), 0) as total_spent, COUNT(*) as purchase_count, COALESCE(AVG(total_price), 0) as avg_order_value").
		Where("user_id = ?", userID).
		Scan(&summary).Error
	if err != nil {
		return SpendingSummary{}, err
	}
	err = r.db.Model(&models.Purchase{}).
		Where("user_id = ? AND is_shared = ?", userID, true).
		Count(&summary.SharedPurchases).Error
	return summary, err
}

func (r *PostgresAnalyticsRepository) SpendingByCategory(userID uint) ([]CategorySpending, error) {
	var rows []CategorySpending
	err := r.db.Model(&models.Purchase{}).
		Select("COALESCE(NULLIF(products.category, ''), 'uncategorized') as category, SUM(purchases.total_price) as total_spent, COUNT(*) as count").
		Joins("JOIN products ON products.id = purchases.product_id").
		Where("purchases.user_id = ?", userID).
		Group("1").
		Order("total_spent DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *PostgresAnalyticsRepository) SpendingByMonth(userID uint, months int) ([]MonthlySpending, error) {
	since := time.Now().AddDate(0, -months, 0)
	var rows []MonthlySpending
	err := r.db.Model(&models.Purchase{}).
		Select("to_char(purchase_date, 'YYYY-MM') as month, SUM(total_price) as total_spent, COUNT(*) as count").
		Where("user_id = ? AND purchase_date >= ?", userID, since).
		Group("1").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *PostgresAnalyticsRepository) SpendingByStore(userID uint) ([]StoreSpending, error) {
	var rows []StoreSpending
	err := r.db.Model(&models.Purchase{}).
		Select("store_name, SUM(total_price) as total_spent, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("store_name").
		Order("total_spent DESC").
		Scan(&rows).Error
	return rows, err
}
