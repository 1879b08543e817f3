package services

import (
	"fmt"
	"log"

	"bazaar/internal/errs"
	"bazaar/internal/models"
	"bazaar/internal/repositories"

	"bazaar/pkg/events"
)

// OrderService enforces the order status lifecycle per actor role. A
// shopkeeper may set any enum status on their own orders; a delivery partner
// may claim ready orders and advance orders assigned to them. Ownership
// failures are reported as not-found.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{orderRepo: orderRepo, publisher: publisher}
}

// GetOrder retrieves an order visible to the acting identity: its customer,
// its shopkeeper, its assigned delivery partner, or an admin.
func (s *OrderService) GetOrder(actor models.Actor, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case models.RoleAdmin:
		return order, nil
	case models.RoleCustomer:
		if order.CustomerID == actor.ID {
			return order, nil
		}
	case models.RoleShopkeeper:
		if order.ShopkeeperID == actor.ID {
			return order, nil
		}
	case models.RoleDelivery:
		if order.DeliveryPartnerID != nil && *order.DeliveryPartnerID == actor.ID {
			return order, nil
		}
	}
	return nil, errs.NewNotFoundError("order", orderID)
}

// GetCustomerOrders lists the acting customer's orders, newest first.
func (s *OrderService) GetCustomerOrders(actor models.Actor) ([]models.Order, error) {
	return s.orderRepo.GetByCustomer(actor.ID)
}

// GetShopOrders lists the acting shopkeeper's orders, newest first, along
// with the count of orders still pending.
func (s *OrderService) GetShopOrders(actor models.Actor) ([]models.Order, int, error) {
	orders, err := s.orderRepo.GetByShopkeeper(actor.ID)
	if err != nil {
		return nil, 0, err
	}
	pending := 0
	for _, order := range orders {
		if order.Status == models.StatusPending {
			pending++
		}
	}
	return orders, pending, nil
}

// GetAvailableOrders lists unassigned ready orders a delivery partner may claim.
func (s *OrderService) GetAvailableOrders() ([]models.Order, error) {
	return s.orderRepo.GetReady()
}

// GetAssignedOrders lists the orders assigned to the acting delivery partner.
func (s *OrderService) GetAssignedOrders(actor models.Actor) ([]models.Order, error) {
	return s.orderRepo.GetByDeliveryPartner(actor.ID)
}

// UpdateStatus sets a new status on an order owned by the acting shopkeeper.
// Only enum membership is validated; the shopkeeper may move their order to
// any status, which matches how shops actually operate (correcting a
// mis-set status is allowed). Returns a confirmation message.
func (s *OrderService) UpdateStatus(actor models.Actor, orderID, status string) (string, error) {
	if !models.ValidStatus(status) {
		return "", errs.NewValidationError(fmt.Sprintf("invalid order status: %s", status))
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return "", err
	}
	if order.ShopkeeperID != actor.ID {
		return "", errs.NewNotFoundError("order", orderID)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return "", err
	}
	s.publishStatusChanged(orderID, order.Status, status)

	switch status {
	case models.StatusConfirmed:
		return fmt.Sprintf("Order %s confirmed successfully!", orderID), nil
	case models.StatusReady:
		return fmt.Sprintf("Order %s marked as ready for pickup!", orderID), nil
	case models.StatusCancelled:
		return fmt.Sprintf("Order %s cancelled successfully.", orderID), nil
	default:
		return fmt.Sprintf("Order %s status updated to %s.", orderID, status), nil
	}
}

// Claim assigns a ready, unassigned order to the acting delivery partner.
// The partner reference and the assigned status change as one atomic step,
// guarded by a conditional update, so two concurrent claims on the same
// order produce exactly one success.
func (s *OrderService) Claim(actor models.Actor, orderID string) (string, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return "", err
	}
	if order.DeliveryPartnerID != nil && *order.DeliveryPartnerID != actor.ID {
		return "", errs.NewConflictError("this order is already assigned to another delivery partner")
	}
	if order.Status != models.StatusReady {
		return "", errs.NewValidationError("this order is not available for delivery")
	}

	claimed, err := s.orderRepo.Claim(orderID, actor.ID)
	if err != nil {
		return "", err
	}
	if !claimed {
		// The pre-read passed but the conditional update matched nothing:
		// someone else claimed in between.
		return "", errs.NewConflictError("this order is already assigned to another delivery partner")
	}
	s.publishStatusChanged(orderID, order.Status, models.StatusAssigned)

	return fmt.Sprintf("Order %s accepted successfully! You can now start the delivery.", orderID), nil
}

// UpdateDeliveryStatus advances an order assigned to the acting delivery
// partner. The reachable statuses are limited to the delivery leg of the
// lifecycle. Returns a confirmation message.
func (s *OrderService) UpdateDeliveryStatus(actor models.Actor, orderID, status string) (string, error) {
	if !models.ValidDeliveryStatus(status) {
		return "", errs.NewValidationError(fmt.Sprintf("invalid delivery status: %s", status))
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return "", err
	}
	if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != actor.ID {
		return "", errs.NewNotFoundError("order", orderID)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return "", err
	}
	s.publishStatusChanged(orderID, order.Status, status)

	switch status {
	case models.StatusOutForDelivery:
		return fmt.Sprintf("Order %s marked as out for delivery!", orderID), nil
	case models.StatusDelivered:
		return fmt.Sprintf("Order %s marked as delivered successfully!", orderID), nil
	default:
		return fmt.Sprintf("Order %s status updated to %s.", orderID, status), nil
	}
}

func (s *OrderService) publishStatusChanged(orderID, oldStatus, newStatus string) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"order_id":   orderID,
		"old_status": oldStatus,
		"new_status": newStatus,
	}
	if err := s.publisher.Publish(events.OrderStatusChanged, payload); err != nil {
		log.Printf("Warning: failed to publish status change event for order %s: %v", orderID, err)
	}
}
