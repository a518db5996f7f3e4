package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account status shared by shops and barbers.
const (
	StatusActive      = "active"
	StatusBlocked     = "blocked"
	StatusDeactivated = "de-activated"
	StatusDisabled    = "disabled"
)

type Shop struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID uuid.UUID `gorm:"type:uuid;index;not null" json:"vendor_id"`

	Name      string `gorm:"size:120;not null" json:"name"`
	OpenTime  string `gorm:"size:5" json:"open_time"`
	CloseTime string `gorm:"size:5" json:"close_time"`
	Status    string `gorm:"size:20;default:'active';index" json:"status"`
	Timezone  string `gorm:"size:64;default:'UTC'" json:"timezone"`

	Location *ShopLocation `gorm:"foreignKey:ShopID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"location,omitempty"`
	Services []Service     `gorm:"foreignKey:ShopID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"services,omitempty"`
	Barbers  []Barber      `gorm:"foreignKey:ShopID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Shop) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type ShopLocation struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShopID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"shop_id"`

	Address string `gorm:"size:255" json:"address"`
	City    string `gorm:"size:100" json:"city"`
	Pincode string `gorm:"size:12" json:"pincode"`

	Latitude  float64 `gorm:"type:decimal(10,6);not null;index:idx_shop_locations_lat_lng" json:"latitude"`
	Longitude float64 `gorm:"type:decimal(10,6);not null;index:idx_shop_locations_lat_lng" json:"longitude"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *ShopLocation) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
