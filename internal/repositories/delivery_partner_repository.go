package repositories

import "bazaar/internal/models"

// DeliveryPartnerRepository defines the interface for delivery partner data access.
type DeliveryPartnerRepository interface {
	Create(partner *models.DeliveryPartner) error
	GetByID(id string) (*models.DeliveryPartner, error)
	GetByEmail(email string) (*models.DeliveryPartner, error)
	// DeleteCascade removes the given delivery partners and clears the
	// partner reference on all of their orders. Orders themselves are never
	// deleted. Returns the number of partners removed.
	DeleteCascade(ids []string) (int64, error)
}
