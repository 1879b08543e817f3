package repositories

import (
	"fmt"

	"bazaar/internal/errs"
	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NewNotFoundError("order", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByCustomer retrieves all orders placed by one customer, newest first.
func (r *GORMOrderRepository) GetByCustomer(customerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for customer %s: %w", customerID, err)
	}
	return orders, nil
}

// GetByShopkeeper retrieves all orders for one shopkeeper, newest first.
func (r *GORMOrderRepository) GetByShopkeeper(shopkeeperID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("shopkeeper_id = ?", shopkeeperID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for shopkeeper %s: %w", shopkeeperID, err)
	}
	return orders, nil
}

// GetByDeliveryPartner retrieves all orders assigned to one delivery partner.
func (r *GORMOrderRepository) GetByDeliveryPartner(partnerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("delivery_partner_id = ?", partnerID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for delivery partner %s: %w", partnerID, err)
	}
	return orders, nil
}

// GetReady retrieves unassigned orders in the ready status.
func (r *GORMOrderRepository) GetReady() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").
		Where("status = ? AND delivery_partner_id IS NULL", models.StatusReady).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get ready orders: %w", err)
	}
	return orders, nil
}

// CreateBatch persists all orders of one checkout submission in a single
// transaction. Items are created through the association.
func (r *GORMOrderRepository) CreateBatch(orders []*models.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, order := range orders {
			if order.ID == "" {
				order.ID = uuid.New().String()
			}
			for i := range order.Items {
				if order.Items[i].ID == "" {
					order.Items[i].ID = uuid.New().String()
				}
				order.Items[i].OrderID = order.ID
			}
			if err := tx.Create(order).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create orders: %w", err)
	}
	return nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFoundError("order", id)
	}
	return nil
}

// Claim performs the compare-and-set assignment: partner and status change
// together, and only if the order is still ready and unassigned. A lost race
// shows up as zero affected rows.
func (r *GORMOrderRepository) Claim(orderID, partnerID string) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND delivery_partner_id IS NULL", orderID, models.StatusReady).
		Updates(map[string]interface{}{
			"status":              models.StatusAssigned,
			"delivery_partner_id": partnerID,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim order %s: %w", orderID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// DeleteCascade removes orders, items first, in one transaction.
func (r *GORMOrderRepository) DeleteCascade(ids []string) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id IN ?", ids).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, errs.NewIntegrityError("order", err)
	}
	return deleted, nil
}
