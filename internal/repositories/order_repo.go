package repositories

import "bazaar/internal/models"

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetByID(id string) (*models.Order, error)
	GetByCustomer(customerID string) ([]models.Order, error)
	GetByShopkeeper(shopkeeperID string) ([]models.Order, error)
	GetByDeliveryPartner(partnerID string) ([]models.Order, error)
	// GetReady returns unassigned orders in the ready status, the pool a
	// delivery partner may claim from.
	GetReady() ([]models.Order, error)
	// CreateBatch persists all orders of one checkout submission, items
	// included, as a single all-or-nothing operation.
	CreateBatch(orders []*models.Order) error
	UpdateStatus(id string, status string) error
	// Claim atomically sets the delivery partner and the assigned status on
	// an order that is still ready and unassigned. Returns false when the
	// conditional update matched no row, i.e. the claim lost to a concurrent
	// writer or the order is not claimable.
	Claim(orderID, partnerID string) (bool, error)
	// DeleteCascade removes the given orders, items first, in one
	// transaction. Returns the number of orders removed.
	DeleteCascade(ids []string) (int64, error)
}
