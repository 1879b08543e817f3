package repositories

import "bazaar/internal/models"

// ShopkeeperRepository defines the interface for shopkeeper data access.
type ShopkeeperRepository interface {
	Create(shopkeeper *models.Shopkeeper) error
	GetByID(id string) (*models.Shopkeeper, error)
	GetByEmail(email string) (*models.Shopkeeper, error)
	// DeleteCascade removes the given shopkeepers together with their direct
	// orders (items first), and their products (nulling order item
	// references), all in one transaction. Returns the number of shopkeepers
	// removed.
	DeleteCascade(ids []string) (int64, error)
}
