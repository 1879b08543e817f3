package models

import "gorm.io/gorm"

// DeliveryPartner represents a courier who claims ready orders and delivers them.
type DeliveryPartner struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Vehicle    string `json:"vehicle" gorm:"type:varchar(50)" validate:"required,max=50"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	gorm.Model
}
