package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Barber struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	ShopID uuid.UUID `gorm:"type:uuid;index;not null" json:"shop_id"`

	Name        string                      `gorm:"size:120;not null" json:"name"`
	Mobile      string                      `gorm:"size:20" json:"mobile"`
	Gender      string                      `gorm:"size:10" json:"gender"`
	Specialties datatypes.JSONSlice[string] `json:"specialties"`
	Status      string                      `gorm:"size:20;default:'active';index" json:"status"`

	// Cleared when the barber takes an immediate assignment, set again on release.
	Available bool `gorm:"not null;index" json:"available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
