package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

type AppointmentServiceDTO struct {
	ServiceID       uuid.UUID        `json:"service_id"`
	Duration        int              `json:"duration"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
}

type AppointmentListDTO struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	ShopID     uuid.UUID  `json:"shop_id"`
	BarberID   *uuid.UUID `json:"barber_id"`

	BookingTime        time.Time  `json:"booking_time"`
	AppointmentDate    time.Time  `json:"appointment_date"`
	ExpectedStartTime  *time.Time `json:"expected_start_time"`
	ExpectedEndTime    *time.Time `json:"expected_end_time"`
	ServiceCompletedAt *time.Time `json:"service_completed_at"`

	ServiceDuration int             `json:"service_duration"`
	ExtraDuration   *int            `json:"extra_duration"`
	TotalPrice      decimal.Decimal `json:"total_price"`

	Pin           int    `json:"pin"`
	Gender        string `json:"gender"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	PaymentMode   string `json:"payment_mode"`
	Notes         string `json:"notes"`
	Remark        string `json:"remark,omitempty"`

	Services []AppointmentServiceDTO `json:"services"`
}

func NewAppointmentListDTO(ap *models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:                 ap.ID,
		CustomerID:         ap.CustomerID,
		ShopID:             ap.ShopID,
		BarberID:           ap.BarberID,
		BookingTime:        ap.BookingTime,
		AppointmentDate:    ap.AppointmentDate,
		ExpectedStartTime:  ap.ExpectedStartTime,
		ExpectedEndTime:    ap.ExpectedEndTime,
		ServiceCompletedAt: ap.ServiceCompletedAt,
		ServiceDuration:    ap.ServiceDuration,
		ExtraDuration:      ap.ExtraDuration,
		TotalPrice:         ap.TotalPrice,
		Pin:                ap.Pin,
		Gender:             ap.Gender,
		Status:             ap.Status,
		PaymentStatus:      ap.PaymentStatus,
		PaymentMode:        ap.PaymentMode,
		Notes:              ap.Notes,
		Remark:             ap.Remark,
		Services:           make([]AppointmentServiceDTO, 0, len(ap.Services)),
	}

	for _, s := range ap.Services {
		out.Services = append(out.Services, AppointmentServiceDTO{
			ServiceID:       s.ServiceID,
			Duration:        s.Duration,
			Price:           s.Price,
			DiscountedPrice: s.DiscountedPrice,
		})
	}
	return out
}
