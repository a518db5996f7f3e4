package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/audit"
	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/domain/geo"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/metrics"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type ServiceLine struct {
	ServiceID       uuid.UUID
	Duration        int
	Price           decimal.Decimal
	DiscountedPrice *decimal.Decimal
}

type SearchLocation struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64 // zero means the configured default
}

type BookAppointmentInput struct {
	CustomerID      uuid.UUID
	ShopID          *uuid.UUID
	AppointmentDate time.Time
	Gender          string
	PaymentMode     domain.PaymentMode
	Notes           string
	Services        []ServiceLine
	Location        *SearchLocation
}

type BookAppointmentOutput struct {
	Appointment *models.Appointment

	// Set only when the shop was picked from the customer's location.
	DistanceKm *float64
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo     domain.Repository
	audit    Auditor
	notifier Notifier
	metrics  *metrics.Metrics
	radius   SearchRadius
	now      Clock
}

func NewBookAppointment(
	repo domain.Repository,
	audit Auditor,
	notifier Notifier,
	m *metrics.Metrics,
	radius SearchRadius,
) *BookAppointment {
	return &BookAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		metrics:  m,
		radius:   radius,
		now:      utcNow,
	}
}

func (uc *BookAppointment) WithClock(now Clock) *BookAppointment {
	uc.now = now
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*BookAppointmentOutput, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if err := uc.validate(&in); err != nil {
		return nil, err
	}

	now := uc.now()
	date := in.AppointmentDate.UTC()

	// --------------------------------------------------
	// 2. Shop: explicit, or nearest with the earliest barber
	// --------------------------------------------------
	var (
		shop       *models.Shop
		distanceKm *float64
		selection  = "explicit"
	)
	if in.ShopID != nil {
		s, err := uc.repo.GetShop(ctx, *in.ShopID)
		if err != nil {
			return nil, orNotFound(err, "shop_not_found", "Shop not found.")
		}
		if s.Status != models.StatusActive {
			return nil, httperr.Domain("shop_inactive", "This shop is not taking bookings.")
		}
		shop = s
	} else {
		picked, err := selectShop(ctx, uc.repo, in.Location, date, now)
		if err != nil {
			return nil, err
		}
		shop = &picked.Shop
		d := geo.RoundKm(picked.DistanceKm)
		distanceKm = &d
		selection = "auto"
	}

	// --------------------------------------------------
	// 3. Totals + pin
	// --------------------------------------------------
	totalDuration := 0
	totalPrice := decimal.Zero
	for _, s := range in.Services {
		totalDuration += s.Duration
		totalPrice = totalPrice.Add(s.Price)
	}

	pin, err := domain.NewPin()
	if err != nil {
		return nil, fmt.Errorf("generate pin: %w", err)
	}

	ap := &models.Appointment{
		CustomerID:      in.CustomerID,
		ShopID:          shop.ID,
		BookingTime:     now,
		AppointmentDate: date,
		ServiceDuration: totalDuration,
		TotalPrice:      totalPrice,
		Pin:             pin,
		Gender:          in.Gender,
		Status:          string(domain.InitialStatus()),
		Notes:           strings.TrimSpace(in.Notes),
		PaymentStatus:   string(domain.PaymentPending),
		PaymentMode:     string(in.PaymentMode),
	}

	// --------------------------------------------------
	// 4. Appointment + line items, all or nothing
	// --------------------------------------------------
	err = uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		known, err := tx.FindServices(ctx, shop.ID, serviceIDs(in.Services))
		if err != nil {
			return err
		}
		catalog := make(map[uuid.UUID]bool, len(known))
		for _, s := range known {
			catalog[s.ID] = true
		}

		ap.Services = make([]models.AppointmentService, 0, len(in.Services))
		for i, s := range in.Services {
			if !catalog[s.ServiceID] {
				return httperr.ValidationErr("invalid_service", "One or more services are not offered by this shop.",
					httperr.FieldError{Field: fmt.Sprintf("services[%d].service_id", i), Message: "unknown service"})
			}

			line := models.AppointmentService{
				AppointmentID:   ap.ID,
				ServiceID:       s.ServiceID,
				Duration:        s.Duration,
				Price:           s.Price,
				DiscountedPrice: s.DiscountedPrice,
			}
			if err := tx.CreateAppointmentService(ctx, &line); err != nil {
				if httperr.IsForeignKeyViolation(err) {
					return httperr.ValidationErr("invalid_service", "One or more services do not exist.",
						httperr.FieldError{Field: fmt.Sprintf("services[%d].service_id", i), Message: "unknown service"})
				}
				return err
			}
			ap.Services = append(ap.Services, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Side effects
	// --------------------------------------------------
	uc.metrics.BookingCreated(selection)

	uc.audit.Dispatch(audit.Event{
		ShopID:   &ap.ShopID,
		UserID:   &ap.CustomerID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"shop_selection": selection,
			"service_count":  len(ap.Services),
		},
	})

	uc.notifier.Notify(notify.Notification{
		UserID: ap.CustomerID,
		Title:  "Appointment submitted",
		Body:   fmt.Sprintf("Your booking at %s is waiting for confirmation. Pin: %04d", shop.Name, ap.Pin),
		Data: map[string]string{
			"appointment_id": ap.ID.String(),
			"status":         ap.Status,
		},
	})

	return &BookAppointmentOutput{Appointment: ap, DistanceKm: distanceKm}, nil
}

func (uc *BookAppointment) validate(in *BookAppointmentInput) error {
	var fields []httperr.FieldError

	if in.CustomerID == uuid.Nil {
		fields = append(fields, httperr.FieldError{Field: "customer_id", Message: "is required"})
	}
	if in.AppointmentDate.IsZero() {
		fields = append(fields, httperr.FieldError{Field: "appointment_date", Message: "is required"})
	}
	if len(in.Services) == 0 {
		fields = append(fields, httperr.FieldError{Field: "services", Message: "must contain at least one service"})
	}
	for i, s := range in.Services {
		if s.ServiceID == uuid.Nil {
			fields = append(fields, httperr.FieldError{Field: fmt.Sprintf("services[%d].service_id", i), Message: "is required"})
		}
		if s.Duration <= 0 {
			fields = append(fields, httperr.FieldError{Field: fmt.Sprintf("services[%d].duration", i), Message: "must be greater than 0"})
		}
		if s.Price.IsNegative() {
			fields = append(fields, httperr.FieldError{Field: fmt.Sprintf("services[%d].price", i), Message: "must be at least 0"})
		}
		if s.DiscountedPrice != nil && s.DiscountedPrice.IsNegative() {
			fields = append(fields, httperr.FieldError{Field: fmt.Sprintf("services[%d].discounted_price", i), Message: "must be at least 0"})
		}
	}

	if in.ShopID == nil {
		switch {
		case in.Location == nil:
			fields = append(fields, httperr.FieldError{Field: "location", Message: "is required when shop_id is omitted"})
		default:
			if in.Location.RadiusKm == 0 {
				in.Location.RadiusKm = uc.radius.DefaultKm
			}
			fields = append(fields, validateLocation(*in.Location, uc.radius.MaxKm, "location.")...)
		}
	}

	if len(fields) > 0 {
		return httperr.ValidationErr("invalid_request", "Request validation failed.", fields...)
	}
	return nil
}

func validateLocation(loc SearchLocation, maxKm float64, prefix string) []httperr.FieldError {
	var fields []httperr.FieldError
	if loc.Latitude < -90 || loc.Latitude > 90 {
		fields = append(fields, httperr.FieldError{Field: prefix + "latitude", Message: "must be a latitude between -90 and 90"})
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		fields = append(fields, httperr.FieldError{Field: prefix + "longitude", Message: "must be a longitude between -180 and 180"})
	}
	if loc.RadiusKm <= 0 || (maxKm > 0 && loc.RadiusKm > maxKm) {
		fields = append(fields, httperr.FieldError{Field: prefix + "radius", Message: fmt.Sprintf("must be greater than 0 and at most %g", maxKm)})
	}
	return fields
}

func serviceIDs(lines []ServiceLine) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ServiceID)
	}
	return ids
}
