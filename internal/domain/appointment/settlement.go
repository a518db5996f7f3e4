package appointment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

type ServiceSummary struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Duration      int             `json:"duration"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
}

type Settlement struct {
	TotalPrice       decimal.Decimal  `json:"total_price"`
	Discount         decimal.Decimal  `json:"discount"`
	ChargeableAmount decimal.Decimal  `json:"chargeable_amount"`
	Services         []ServiceSummary `json:"services"`
}

// Settle totals the appointment from the current catalog record of each line
// item. A line whose catalog service is gone is settled from its booking
// snapshot instead.
func Settle(lines []models.AppointmentService) Settlement {
	s := Settlement{
		TotalPrice: decimal.Zero,
		Discount:   decimal.Zero,
		Services:   make([]ServiceSummary, 0, len(lines)),
	}

	for _, line := range lines {
		sum := ServiceSummary{
			ID:            line.ServiceID,
			Duration:      line.Duration,
			Price:         line.Price,
			DiscountPrice: orZero(line.DiscountedPrice),
		}
		if svc := line.Service; svc != nil {
			sum.Name = svc.Name
			sum.Description = svc.Description
			sum.Price = svc.Price
			sum.DiscountPrice = orZero(svc.DiscountedPrice)
		}

		s.TotalPrice = s.TotalPrice.Add(sum.Price)
		s.Discount = s.Discount.Add(sum.DiscountPrice)
		s.Services = append(s.Services, sum)
	}

	s.ChargeableAmount = s.TotalPrice.Sub(s.Discount)
	return s
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
