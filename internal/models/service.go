package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderUnisex = "unisex"
	GenderOthers = "others"
)

// Service is a catalog item offered by a shop. DiscountedPrice holds the
// discount amount, not the price after discount.
type Service struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShopID uuid.UUID `gorm:"type:uuid;index;not null" json:"shop_id"`

	Name        string `gorm:"size:120;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Duration    int    `gorm:"not null" json:"duration"`

	Price           decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountedPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"discounted_price"`

	Gender   string `gorm:"size:10" json:"gender"`
	Category string `gorm:"size:60;index" json:"category"`
	IsActive bool   `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
