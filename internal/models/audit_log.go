package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ShopID *uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	UserID *uuid.UUID `gorm:"type:uuid" json:"user_id"`
	Action string     `gorm:"size:50;not null" json:"action"`

	Entity   string         `gorm:"size:50" json:"entity"`
	EntityID *uuid.UUID     `gorm:"type:uuid" json:"entity_id"`
	Metadata datatypes.JSON `json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}

func (l *AuditLog) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
