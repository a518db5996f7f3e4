package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/audit"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/domain/allocator"
	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/metrics"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/notify"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type AssignBarberInput struct {
	AppointmentID uuid.UUID
	BarberID      *uuid.UUID
	ExtraDuration int

	Actor domain.Actor
}

type AssignBarberOutput struct {
	Appointment *models.Appointment
	Strategy    allocator.Strategy
}

// ======================================================
// USE CASE
// ======================================================

type AssignBarber struct {
	repo     domain.Repository
	audit    Auditor
	notifier Notifier
	metrics  *metrics.Metrics
	now      Clock
}

func NewAssignBarber(
	repo domain.Repository,
	audit Auditor,
	notifier Notifier,
	m *metrics.Metrics,
) *AssignBarber {
	return &AssignBarber{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		metrics:  m,
		now:      utcNow,
	}
}

func (uc *AssignBarber) WithClock(now Clock) *AssignBarber {
	uc.now = now
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *AssignBarber) Execute(
	ctx context.Context,
	in AssignBarberInput,
) (*AssignBarberOutput, error) {

	if in.ExtraDuration < 0 {
		return nil, httperr.ValidationErr("invalid_request", "Request validation failed.",
			httperr.FieldError{Field: "extra_duration", Message: "must be at least 0"})
	}

	var (
		ap     *models.Appointment
		choice allocator.Choice
	)

	err := uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 1. Appointment, locked for the rest of the transaction
		// --------------------------------------------------
		locked, err := tx.LockAppointment(ctx, in.AppointmentID)
		if err != nil {
			return orNotFound(err, "appointment_not_found", "Appointment not found.")
		}
		shop, err := tx.GetShop(ctx, locked.ShopID)
		if err != nil {
			return orNotFound(err, "shop_not_found", "Shop not found.")
		}
		if err := authorizeStaff(ctx, tx, in.Actor, shop); err != nil {
			return err
		}
		if err := domain.CanAssign(locked); err != nil {
			return err
		}
		from, to := timezone.DayBounds(locked.AppointmentDate, shop.Timezone)
		now := uc.now()

		// --------------------------------------------------
		// 2. Barber
		// --------------------------------------------------
		if in.BarberID != nil {
			choice, err = uc.preferred(ctx, tx, shop.ID, *in.BarberID, from, to, now)
		} else {
			choice, err = uc.auto(ctx, tx, shop.ID, from, to, now)
		}
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 3. Persist
		// --------------------------------------------------
		if err := domain.Assign(locked, choice.BarberID, choice.Start, in.ExtraDuration); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, locked); err != nil {
			return err
		}

		ap = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Side effects
	// --------------------------------------------------
	uc.metrics.BarberAssigned(string(choice.Strategy))

	uc.audit.Dispatch(audit.Event{
		ShopID:   &ap.ShopID,
		UserID:   &in.Actor.ID,
		Action:   "barber_assigned",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"barber_id": choice.BarberID,
			"strategy":  choice.Strategy,
		},
	})

	uc.notifier.Notify(notify.Notification{
		UserID: ap.CustomerID,
		Title:  "Appointment accepted",
		Body:   fmt.Sprintf("Your appointment is expected to start at %s.", ap.ExpectedStartTime.Format("15:04 MST")),
		Data: map[string]string{
			"appointment_id": ap.ID.String(),
			"status":         ap.Status,
		},
	})

	return &AssignBarberOutput{Appointment: ap, Strategy: choice.Strategy}, nil
}

// preferred honours the barber the caller asked for: now if the barber can
// be claimed, otherwise right after their last active job of the day.
func (uc *AssignBarber) preferred(
	ctx context.Context,
	tx domain.Repository,
	shopID uuid.UUID,
	barberID uuid.UUID,
	from, to, now time.Time,
) (allocator.Choice, error) {

	barber, err := tx.GetBarberInShop(ctx, shopID, barberID)
	if err != nil {
		return allocator.Choice{}, orNotFound(err, "barber_not_found", "Barber not found in this shop.")
	}
	if barber.Status != models.StatusActive {
		return allocator.Choice{}, httperr.Domain("barber_inactive", "This barber is not taking appointments.")
	}

	cand := allocator.Candidate{BarberID: barber.ID, ShopID: shopID}

	claimed, err := tx.ClaimBarber(ctx, barber.ID)
	if err != nil {
		return allocator.Choice{}, err
	}
	if claimed {
		cand.Available = true
		return allocator.Choice{Candidate: cand, Start: now, Strategy: allocator.StrategyPreferredNow}, nil
	}
	if barber.Available {
		uc.metrics.ClaimConflict()
	}

	ends, err := tx.LatestActiveEnds(ctx, []uuid.UUID{barber.ID}, from, to)
	if err != nil {
		return allocator.Choice{}, err
	}
	if end, ok := ends[barber.ID]; ok {
		cand.LatestEnd = &end
	}
	return allocator.Choice{Candidate: cand, Start: cand.FreeAt(now), Strategy: allocator.StrategyPreferredQueued}, nil
}

// auto claims the first free barber of the shop; when every claim fails it
// queues the appointment on the barber who frees up first.
func (uc *AssignBarber) auto(
	ctx context.Context,
	tx domain.Repository,
	shopID uuid.UUID,
	from, to, now time.Time,
) (allocator.Choice, error) {

	barbers, err := tx.ListActiveBarbers(ctx, []uuid.UUID{shopID})
	if err != nil {
		return allocator.Choice{}, err
	}
	if len(barbers) == 0 {
		return allocator.Choice{}, httperr.NotFoundErr("no_barbers_found", "no barbers found")
	}

	cands := make([]allocator.Candidate, 0, len(barbers))
	ids := make([]uuid.UUID, 0, len(barbers))
	for _, b := range barbers {
		cands = append(cands, allocator.Candidate{BarberID: b.ID, ShopID: shopID, Available: b.Available})
		ids = append(ids, b.ID)
	}

	for _, c := range allocator.Immediate(cands) {
		claimed, err := tx.ClaimBarber(ctx, c.BarberID)
		if err != nil {
			return allocator.Choice{}, err
		}
		if claimed {
			return allocator.Choice{Candidate: c, Start: now, Strategy: allocator.StrategyImmediate}, nil
		}
		uc.metrics.ClaimConflict()
	}

	ends, err := tx.LatestActiveEnds(ctx, ids, from, to)
	if err != nil {
		return allocator.Choice{}, err
	}
	for i := range cands {
		cands[i].Available = false
		if end, ok := ends[cands[i].BarberID]; ok {
			cands[i].LatestEnd = &end
		}
	}

	choice, _ := allocator.EarliestFree(cands, now)
	return choice, nil
}
