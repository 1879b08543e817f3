package models

import "gorm.io/gorm"

// Product represents a catalog item owned by exactly one shopkeeper.
// Quantity is a free-text descriptor ("1kg", "pack of 6"), not numeric stock.
type Product struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ShopkeeperID string  `json:"shopkeeper_id" gorm:"index;type:varchar(36)" validate:"required"`
	Name         string  `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Image        string  `json:"image" gorm:"type:varchar(255)" validate:"omitempty,url"`
	Price        float64 `json:"price" gorm:"type:decimal(10,2)" validate:"required,gt=0"`
	Quantity     string  `json:"quantity" gorm:"type:varchar(50)" validate:"required,max=50"`
	Description  string  `json:"description" validate:"omitempty,max=500"`
	gorm.Model
}
