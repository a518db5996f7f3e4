package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/audit"
	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

const (
	RoleAdmin  = domain.RoleAdmin
	RoleVendor = domain.RoleVendor
	RoleBarber = domain.RoleBarber
	RoleUser   = domain.RoleUser
)

type BarberStore interface {
	GetBarberWithShop(ctx context.Context, barberID uuid.UUID) (*models.Barber, *models.Shop, error)
	SetBarberAvailability(ctx context.Context, barberID uuid.UUID, available bool) error
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type ToggleAvailabilityInput struct {
	BarberID  uuid.UUID
	Available bool

	ActorID   uuid.UUID
	ActorRole string
}

type ToggleBarberAvailability struct {
	repo  BarberStore
	audit Auditor
}

func NewToggleBarberAvailability(repo BarberStore, audit Auditor) *ToggleBarberAvailability {
	return &ToggleBarberAvailability{repo: repo, audit: audit}
}

// Execute switches a barber on or off work. Allowed for admins, the owning
// vendor and the barber themself. Returns the message shown to the caller.
func (uc *ToggleBarberAvailability) Execute(
	ctx context.Context,
	in ToggleAvailabilityInput,
) (*models.Barber, string, error) {

	barber, shop, err := uc.repo.GetBarberWithShop(ctx, in.BarberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", httperr.NotFoundErr("barber_not_found", "Barber not found.")
		}
		return nil, "", err
	}

	allowed := in.ActorRole == RoleAdmin ||
		(in.ActorRole == RoleVendor && shop.VendorID == in.ActorID) ||
		(in.ActorRole == RoleBarber && barber.UserID == in.ActorID)
	if !allowed {
		return nil, "", httperr.ForbiddenErr("forbidden", "You cannot change this barber's availability.")
	}

	if in.Available && barber.Status != models.StatusActive {
		return nil, "", httperr.Domain("barber_inactive", "An inactive barber cannot be put on work.")
	}

	if err := uc.repo.SetBarberAvailability(ctx, barber.ID, in.Available); err != nil {
		return nil, "", err
	}
	barber.Available = in.Available

	uc.audit.Dispatch(audit.Event{
		ShopID:   &shop.ID,
		UserID:   &in.ActorID,
		Action:   "barber_availability_changed",
		Entity:   "barber",
		EntityID: &barber.ID,
		Metadata: map[string]any{"available": in.Available},
	})

	state := "off"
	if in.Available {
		state = "on"
	}
	return barber, fmt.Sprintf("%s is %s work today", barber.Name, state), nil
}
