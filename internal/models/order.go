package models

import "time"

// Order statuses. The enum is fixed; anything outside it is rejected.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusReady          = "ready"
	StatusAssigned       = "assigned"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentOnline         = "online_payment"
)

// ValidStatus reports whether s is a member of the order status enum.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusReady, StatusAssigned,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidDeliveryStatus reports whether s is a status a delivery partner may
// set on an order assigned to them.
func ValidDeliveryStatus(s string) bool {
	switch s {
	case StatusAssigned, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCashOnDelivery || m == PaymentOnline
}

// Order represents one purchase transaction scoped to a single shopkeeper.
// The shopkeeper is fixed at creation and never reassigned. Delivery fields
// are snapshots of what the customer submitted at checkout.
type Order struct {
	ID                  string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID          string      `json:"customer_id" gorm:"index;type:varchar(36)"`
	ShopkeeperID        string      `json:"shopkeeper_id" gorm:"index;type:varchar(36)"`
	DeliveryPartnerID   *string     `json:"delivery_partner_id" gorm:"index;type:varchar(36)"`
	DeliveryName        string      `json:"delivery_name" gorm:"type:varchar(100)"`
	DeliveryPhone       string      `json:"delivery_phone" gorm:"type:varchar(20)"`
	DeliveryAddress     string      `json:"delivery_address" gorm:"type:varchar(255)"`
	PaymentMethod       string      `json:"payment_method" gorm:"type:varchar(50)"`
	SpecialInstructions string      `json:"special_instructions"`
	TotalAmount         float64     `json:"total_amount" gorm:"type:decimal(10,2)"`
	Status              string      `json:"status" gorm:"type:varchar(20)"`
	Items               []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// OrderItem is a line within an order. Name and price are snapshots taken at
// order time and are never recomputed from the live product; ProductID is
// nulled if the product is later deleted.
type OrderItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string  `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID   *string `json:"product_id" gorm:"index;type:varchar(36)"`
	ProductName string  `json:"product_name" gorm:"type:varchar(100)"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2)"` // Unit price at the time of order
}
