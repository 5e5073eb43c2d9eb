package repositories

import (
	"github.com/buyroll/backend/internal/models"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for product catalog operations
type ProductRepository interface {
	CreateProduct(product *models.Product) error
	GetProductByID(id uint) (*models.Product, error)
	GetProductByExternal(externalID, source string) (*models.Product, error)
	GetProductsByIDs(ids []uint) (map[uint]models.Product, error)
	BackfillImage(id uint, imageURL string) error
}

// PostgresProductRepository implements ProductRepository for PostgreSQL
type PostgresProductRepository struct {
	db *gorm.DB
}

func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) CreateProduct(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *PostgresProductRepository) GetProductByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *PostgresProductRepository) GetProductByExternal(externalID, source string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("external_id = ? AND source = ?", externalID, source).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *PostgresProductRepository) GetProductsByIDs(ids []uint) (map[uint]models.Product, error) {
	result := make(map[uint]models.Product)
	if len(ids) == 0 {
		return result, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

// BackfillImage is the only permitted mutation of a product after creation.
func (r *PostgresProductRepository) BackfillImage(id uint, imageURL string) error {
	return r.db.Model(&models.Product{}).Where("id = ? AND (image_url = '' OR image_url IS NULL)", id).
		Update("image_url", imageURL).Error
}
