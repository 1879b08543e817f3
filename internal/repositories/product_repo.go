package repositories

import "bazaar/internal/models"

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByShopkeeper(shopkeeperID string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	// DeleteCascade removes the given products and nulls the product
	// reference on every order item that points at them. Item quantity,
	// name and price snapshots are left untouched. Returns the number of
	// products removed.
	DeleteCascade(ids []string) (int64, error)
}
