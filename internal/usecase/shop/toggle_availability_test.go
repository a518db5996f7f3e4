package shop

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/audit"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/infra/repository"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/testutil"
)

type auditSpy struct {
	events []audit.Event
}

func (a *auditSpy) Dispatch(ev audit.Event) {
	a.events = append(a.events, ev)
}

func TestToggleAvailability(t *testing.T) {
	db := testutil.NewDB(t)
	spy := &auditSpy{}
	uc := NewToggleBarberAvailability(repository.NewShopGormRepository(db), spy)

	shop := testutil.Shop(t, db, 12.97, 77.59)
	barber := testutil.Barber(t, db, shop.ID, false, func(b *models.Barber) { b.Name = "Ravi" })

	tests := []struct {
		name      string
		actorID   uuid.UUID
		role      string
		available bool
		message   string
		code      string
	}{
		{"vendor switches on", shop.VendorID, RoleVendor, true, "Ravi is on work today", ""},
		{"barber switches off", barber.UserID, RoleBarber, false, "Ravi is off work today", ""},
		{"admin switches on", uuid.New(), RoleAdmin, true, "Ravi is on work today", ""},
		{"other vendor", uuid.New(), RoleVendor, false, "", "forbidden"},
		{"other barber", uuid.New(), RoleBarber, false, "", "forbidden"},
		{"customer", uuid.New(), RoleUser, true, "", "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg, err := uc.Execute(context.Background(), ToggleAvailabilityInput{
				BarberID:  barber.ID,
				Available: tt.available,
				ActorID:   tt.actorID,
				ActorRole: tt.role,
			})
			if tt.code != "" {
				assert.True(t, httperr.IsBusiness(err, tt.code))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.message, msg)
			assert.Equal(t, tt.available, got.Available)

			var stored models.Barber
			require.NoError(t, db.First(&stored, "id = ?", barber.ID).Error)
			assert.Equal(t, tt.available, stored.Available)
		})
	}

	assert.Len(t, spy.events, 3)
	assert.Equal(t, "barber_availability_changed", spy.events[0].Action)
}

func TestToggleAvailability_InactiveBarber(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewToggleBarberAvailability(repository.NewShopGormRepository(db), &auditSpy{})

	shop := testutil.Shop(t, db, 12.97, 77.59)
	barber := testutil.Barber(t, db, shop.ID, false, func(b *models.Barber) { b.Status = models.StatusBlocked })

	_, _, err := uc.Execute(context.Background(), ToggleAvailabilityInput{
		BarberID:  barber.ID,
		Available: true,
		ActorID:   shop.VendorID,
		ActorRole: RoleVendor,
	})

	assert.True(t, httperr.IsBusiness(err, "barber_inactive"))
}

func TestToggleAvailability_UnknownBarber(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewToggleBarberAvailability(repository.NewShopGormRepository(db), &auditSpy{})

	_, _, err := uc.Execute(context.Background(), ToggleAvailabilityInput{
		BarberID:  uuid.New(),
		Available: true,
		ActorRole: RoleAdmin,
	})

	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}
