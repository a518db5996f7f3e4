package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`

	ShopID uuid.UUID `gorm:"type:uuid;index;not null" json:"shop_id"`
	Shop   *Shop     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"shop,omitempty"`

	BarberID *uuid.UUID `gorm:"type:uuid;index" json:"barber_id"`
	Barber   *Barber    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber,omitempty"`

	BookingTime     time.Time `gorm:"not null" json:"booking_time"`
	AppointmentDate time.Time `gorm:"not null;index" json:"appointment_date"`

	ExpectedStartTime  *time.Time `json:"expected_start_time"`
	ExpectedEndTime    *time.Time `json:"expected_end_time"`
	ServiceCompletedAt *time.Time `json:"service_completed_at"`

	ServiceDuration int             `gorm:"not null" json:"service_duration"`
	ExtraDuration   *int            `json:"extra_duration"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`

	Pin    int    `gorm:"not null" json:"pin"`
	Gender string `gorm:"size:10" json:"gender"`
	Status string `gorm:"size:20;not null;index" json:"status"`
	Notes  string `gorm:"size:500" json:"notes"`
	Remark string `gorm:"size:500" json:"remark"`

	PaymentStatus string `gorm:"size:20;not null" json:"payment_status"`
	PaymentMode   string `gorm:"size:20;not null" json:"payment_mode"`

	Services []AppointmentService `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AppointmentService is the duration/price snapshot of one booked service.
type AppointmentService struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointment_id"`

	ServiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"service_id"`
	Service   *Service  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	Duration        int              `gorm:"not null" json:"duration"`
	Price           decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountedPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"discounted_price"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *AppointmentService) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
