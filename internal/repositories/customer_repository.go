package repositories

import "bazaar/internal/models"

// CustomerRepository defines the interface for customer data access.
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id string) (*models.Customer, error)
	GetByEmail(email string) (*models.Customer, error)
	// DeleteCascade removes the given customers together with their orders
	// and those orders' items, in one transaction. Returns the number of
	// customers removed.
	DeleteCascade(ids []string) (int64, error)
}
