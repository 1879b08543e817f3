package repositories

import (
	"fmt"

	"bazaar/internal/errs"
	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMShopkeeperRepository is a GORM implementation of ShopkeeperRepository.
type GORMShopkeeperRepository struct {
	db *gorm.DB
}

// NewGORMShopkeeperRepository creates a new instance of GORMShopkeeperRepository.
func NewGORMShopkeeperRepository(db *gorm.DB) *GORMShopkeeperRepository {
	return &GORMShopkeeperRepository{db: db}
}

// Create creates a new shopkeeper in the database.
func (r *GORMShopkeeperRepository) Create(shopkeeper *models.Shopkeeper) error {
	if shopkeeper.ID == "" {
		shopkeeper.ID = uuid.New().String()
	}
	if err := r.db.Create(shopkeeper).Error; err != nil {
		return fmt.Errorf("failed to create shopkeeper: %w", err)
	}
	return nil
}

// GetByID retrieves a single shopkeeper by ID from the database.
func (r *GORMShopkeeperRepository) GetByID(id string) (*models.Shopkeeper, error) {
	var shopkeeper models.Shopkeeper
	if err := r.db.First(&shopkeeper, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NewNotFoundError("shopkeeper", id)
		}
		return nil, fmt.Errorf("failed to get shopkeeper by ID %s: %w", id, err)
	}
	return &shopkeeper, nil
}

// GetByEmail retrieves a single shopkeeper by email from the database.
func (r *GORMShopkeeperRepository) GetByEmail(email string) (*models.Shopkeeper, error) {
	var shopkeeper models.Shopkeeper
	if err := r.db.First(&shopkeeper, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NewNotFoundError("shopkeeper", email)
		}
		return nil, fmt.Errorf("failed to get shopkeeper by email %s: %w", email, err)
	}
	return &shopkeeper, nil
}

// DeleteCascade removes shopkeepers, their direct orders (items first) and
// their products (nulling order item references) in one transaction.
func (r *GORMShopkeeperRepository) DeleteCascade(ids []string) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var orderIDs []string
		if err := tx.Model(&models.Order{}).Where("shopkeeper_id IN ?", ids).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", orderIDs).Delete(&models.Order{}).Error; err != nil {
				return err
			}
		}

		var productIDs []string
		if err := tx.Model(&models.Product{}).Where("shopkeeper_id IN ?", ids).Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if len(productIDs) > 0 {
			// Items on other shopkeepers' orders keep their snapshots and
			// lose only the product reference.
			if err := tx.Model(&models.OrderItem{}).Where("product_id IN ?", productIDs).
				Update("product_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", productIDs).Delete(&models.Product{}).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id IN ?", ids).Delete(&models.Shopkeeper{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, errs.NewIntegrityError("shopkeeper", err)
	}
	return deleted, nil
}
