package repositories

import (
	"fmt"

	"bazaar/internal/errs"
	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NewNotFoundError("product", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByShopkeeper retrieves all products owned by one shopkeeper.
func (r *GORMProductRepository) GetByShopkeeper(shopkeeperID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("shopkeeper_id = ?", shopkeeperID).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products for shopkeeper %s: %w", shopkeeperID, err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFoundError("product", product.ID)
	}
	return nil
}

// DeleteCascade removes products and nulls the product reference on every
// order item that points at them, in one transaction. Item snapshots are
// preserved.
func (r *GORMProductRepository) DeleteCascade(ids []string) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OrderItem{}).Where("product_id IN ?", ids).
			Update("product_id", nil).Error; err != nil {
			return err
		}

		res := tx.Where("id IN ?", ids).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, errs.NewIntegrityError("product", err)
	}
	return deleted, nil
}
