package repositories

import (
	"fmt"

	"bazaar/internal/errs"
	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMDeliveryPartnerRepository is a GORM implementation of DeliveryPartnerRepository.
type GORMDeliveryPartnerRepository struct {
	db *gorm.DB
}

// NewGORMDeliveryPartnerRepository creates a new instance of GORMDeliveryPartnerRepository.
func NewGORMDeliveryPartnerRepository(db *gorm.DB) *GORMDeliveryPartnerRepository {
	return &GORMDeliveryPartnerRepository{db: db}
}

// Create creates a new delivery partner in the database.
func (r *GORMDeliveryPartnerRepository) Create(partner *models.DeliveryPartner) error {
	if partner.ID == "" {
		partner.ID = uuid.New().String()
	}
	if err := r.db.Create(partner).Error; err != nil {
		return fmt.Errorf("failed to create delivery partner: %w", err)
	}
	return nil
}

// GetByID retrieves a single delivery partner by ID from the database.
func (r *GORMDeliveryPartnerRepository) GetByID(id string) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := r.db.First(&partner, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NewNotFoundError("delivery partner", id)
		}
		return nil, fmt.Errorf("failed to get delivery partner by ID %s: %w", id, err)
	}
	return &partner, nil
}

// GetByEmail retrieves a single delivery partner by email from the database.
func (r *GORMDeliveryPartnerRepository) GetByEmail(email string) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := r.db.First(&partner, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NewNotFoundError("delivery partner", email)
		}
		return nil, fmt.Errorf("failed to get delivery partner by email %s: %w", email, err)
	}
	return &partner, nil
}

// DeleteCascade removes delivery partners and clears the partner reference
// on all of their orders. Orders are never deleted here.
func (r *GORMDeliveryPartnerRepository) DeleteCascade(ids []string) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("delivery_partner_id IN ?", ids).
			Update("delivery_partner_id", nil).Error; err != nil {
			return err
		}

		res := tx.Where("id IN ?", ids).Delete(&models.DeliveryPartner{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, errs.NewIntegrityError("delivery partner", err)
	}
	return deleted, nil
}
