package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"bazaar/internal/errs"
	"bazaar/internal/models"
	"bazaar/internal/repositories"

	"bazaar/pkg/events"
)

// CartEntry is one line of a submitted cart. The price is what the client
// saw at cart-fill time; it is accepted but never stored — the server-side
// product price is authoritative for both items and totals.
type CartEntry struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// CheckoutRequest carries one checkout submission: the cart plus the shared
// delivery metadata snapshotted onto every created order.
type CheckoutRequest struct {
	FullName      string      `json:"full_name" validate:"required,max=100"`
	Phone         string      `json:"phone" validate:"required,max=20"`
	Address       string      `json:"address" validate:"required,max=255"`
	PaymentMethod string      `json:"payment_method" validate:"required"`
	Instructions  string      `json:"instructions"`
	Items         []CartEntry `json:"items" validate:"required,dive"`
}

// CheckoutResult reports the created orders and the cart entries that were
// skipped because their product no longer exists. Skipping is deliberate
// policy: a product removed between cart-fill and checkout must not abort
// the whole submission, and callers get the list so they can warn the user.
type CheckoutResult struct {
	Orders  []models.Order `json:"orders"`
	Skipped []CartEntry    `json:"skipped"`
}

// CheckoutService turns one heterogeneous cart into one order per distinct
// shopkeeper, with price and name snapshots taken from the live catalog at
// checkout time.
type CheckoutService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
}

// NewCheckoutService creates a new CheckoutService. publisher may be nil.
func NewCheckoutService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	publisher EventPublisher,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// Checkout validates the submission, partitions the cart by owning
// shopkeeper and creates all resulting orders in one atomic batch.
func (s *CheckoutService) Checkout(actor models.Actor, req CheckoutRequest) (*CheckoutResult, error) {
	// All validation happens before any product lookup.
	if req.FullName == "" || req.Phone == "" || req.Address == "" || req.PaymentMethod == "" {
		return nil, errs.NewValidationError("please fill in all required delivery fields")
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid payment method: %s", req.PaymentMethod))
	}
	if len(req.Items) == 0 {
		return nil, errs.NewValidationError("your cart is empty")
	}
	for _, entry := range req.Items {
		if entry.ProductID == "" || entry.Quantity <= 0 {
			return nil, errs.NewValidationError("invalid cart data")
		}
	}

	// Resolve each entry; entries whose product is gone are skipped, not
	// fatal. Group survivors by owning shopkeeper, preserving first-seen
	// shop order.
	type group struct {
		shopkeeperID string
		items        []models.OrderItem
		total        float64
	}
	groups := make(map[string]*group)
	var shopOrder []string
	var skipped []CartEntry

	for _, entry := range req.Items {
		product, err := s.productRepo.GetByID(entry.ProductID)
		if err != nil {
			if errs.IsNotFound(err) {
				skipped = append(skipped, entry)
				continue
			}
			return nil, err
		}

		g, ok := groups[product.ShopkeeperID]
		if !ok {
			g = &group{shopkeeperID: product.ShopkeeperID}
			groups[product.ShopkeeperID] = g
			shopOrder = append(shopOrder, product.ShopkeeperID)
		}

		productID := product.ID
		unitPrice := product.Price // Authoritative price at the time of order
		g.items = append(g.items, models.OrderItem{
			ProductID:   &productID,
			ProductName: product.Name,
			Quantity:    entry.Quantity,
			Price:       unitPrice,
		})
		g.total += unitPrice * float64(entry.Quantity)
	}

	if len(groups) == 0 {
		return nil, errs.NewValidationError("your cart is empty")
	}

	orders := make([]*models.Order, 0, len(groups))
	now := time.Now()
	for _, shopkeeperID := range shopOrder {
		g := groups[shopkeeperID]
		orders = append(orders, &models.Order{
			CustomerID:          actor.ID,
			ShopkeeperID:        g.shopkeeperID,
			DeliveryName:        req.FullName,
			DeliveryPhone:       req.Phone,
			DeliveryAddress:     req.Address,
			PaymentMethod:       req.PaymentMethod,
			SpecialInstructions: req.Instructions,
			TotalAmount:         round2(g.total),
			Status:              models.StatusPending,
			Items:               g.items,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	}

	if err := s.orderRepo.CreateBatch(orders); err != nil {
		return nil, fmt.Errorf("failed to create orders: %w", err)
	}

	result := &CheckoutResult{Skipped: skipped}
	for _, order := range orders {
		result.Orders = append(result.Orders, *order)
		s.publishCreated(order)
	}
	return result, nil
}

func (s *CheckoutService) publishCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"order_id":      order.ID,
		"customer_id":   order.CustomerID,
		"shopkeeper_id": order.ShopkeeperID,
		"total_amount":  order.TotalAmount,
		"status":        order.Status,
	}
	if err := s.publisher.Publish(events.OrderCreated, payload); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
	}
}

// round2 rounds a monetary amount to 2 fraction digits.
func round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
