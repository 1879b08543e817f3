package models

// Actor roles. Every core operation receives the acting identity explicitly;
// nothing reads ambient session state.
const (
	RoleShopkeeper = "shopkeeper"
	RoleCustomer   = "customer"
	RoleDelivery   = "delivery_partner"
	RoleAdmin      = "admin"
)

// Actor is the authenticated identity supplied by the auth layer.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}
