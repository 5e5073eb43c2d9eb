package repositories

import (
	"time"

	"github.com/buyroll/backend/internal/models"
	"gorm.io/gorm"
)

// StoreIntegrationRepository defines the interface for store integration operations
type StoreIntegrationRepository interface {
	CreateIntegration(integration *models.StoreIntegration) error
	GetByID(id uint) (*models.StoreIntegration, error)
	ListByUser(userID uint) ([]models.StoreIntegration, error)
	ListActive() ([]models.StoreIntegration, error)
	UpdateLastSync(id uint, at time.Time) error
	DeleteIntegration(id, userID uint) error
}

// PostgresStoreIntegrationRepository implements StoreIntegrationRepository for PostgreSQL
type PostgresStoreIntegrationRepository struct {
	db *gorm.DB
}

func NewPostgresStoreIntegrationRepository(db *gorm.DB) *PostgresStoreIntegrationRepository {
	return &PostgresStoreIntegrationRepository{db: db}
}

func (r *PostgresStoreIntegrationRepository) CreateIntegration(integration *models.StoreIntegration) error {
	return r.db.Create(integration).Error
}

func (r *PostgresStoreIntegrationRepository) GetByID(id uint) (*models.StoreIntegration, error) {
	var integration models.StoreIntegration
	if err := r.db.First(&integration, id).Error; err != nil {
		return nil, err
	}
	return &integration, nil
}

func (r *PostgresStoreIntegrationRepository) ListByUser(userID uint) ([]models.StoreIntegration, error) {
	var integrations []models.StoreIntegration
	err := r.db.Where("user_id = ?", userID).Find(&integrations).Error
	return integrations, err
}

func (r *PostgresStoreIntegrationRepository) ListActive() ([]models.StoreIntegration, error) {
	var integrations []models.StoreIntegration
	err := r.db.Where("active = ?", true).Find(&integrations).Error
	return integrations, err
}

func (r *PostgresStoreIntegrationRepository) UpdateLastSync(id uint, at time.Time) error {
	return r.db.Model(&models.StoreIntegration{}).Where("id = ?", id).Update("last_sync", at).Error
}

func (r *PostgresStoreIntegrationRepository) DeleteIntegration(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.StoreIntegration{}).Error
}
