package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/testutil"
)

// bookAndAssign books haircut (500, 50 off) + shave (300) and assigns the
// shop's only barber.
func bookAndAssign(t *testing.T, f *fixture) (*models.Appointment, *models.Barber) {
	t.Helper()
	ctx := context.Background()

	shop := testutil.Shop(t, f.db, 12.97, 77.59)
	barber := testutil.Barber(t, f.db, shop.ID, true)
	haircut := testutil.Service(t, f.db, shop.ID, "Haircut", 30, "500", "50")
	shave := testutil.Service(t, f.db, shop.ID, "Shave", 15, "300", "")

	booked, err := f.book().Execute(ctx, BookAppointmentInput{
		CustomerID:      uuid.New(),
		ShopID:          &shop.ID,
		AppointmentDate: fixedNow,
		Gender:          models.GenderMale,
		PaymentMode:     domain.PaymentCash,
		Services: []ServiceLine{
			{ServiceID: haircut.ID, Duration: 30, Price: dec("500"), DiscountedPrice: ptr(dec("50"))},
			{ServiceID: shave.ID, Duration: 15, Price: dec("300")},
		},
	})
	require.NoError(t, err)

	assigned, err := f.assign().Execute(ctx, AssignBarberInput{Actor: admin, AppointmentID: booked.Appointment.ID})
	require.NoError(t, err)
	return assigned.Appointment, barber
}

func TestChangeStatus_FullLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap, barber := bookAndAssign(t, f)
	require.False(t, barberAvailable(t, f, barber.ID))

	uc := f.changeStatus(false)

	out, err := uc.Execute(ctx, ChangeStatusInput{Actor: admin, AppointmentID: ap.ID, Status: domain.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, "in-progress", out.Appointment.Status)
	assert.Nil(t, out.Settlement)

	out, err = uc.Execute(ctx, ChangeStatusInput{Actor: admin, AppointmentID: ap.ID, Status: domain.StatusCompleted})
	require.NoError(t, err)
	require.NotNil(t, out.Settlement)
	assert.True(t, dec("800").Equal(out.Settlement.TotalPrice))
	assert.True(t, dec("50").Equal(out.Settlement.Discount))
	assert.True(t, dec("750").Equal(out.Settlement.ChargeableAmount))
	assert.Len(t, out.Settlement.Services, 2)
	assert.True(t, barberAvailable(t, f, barber.ID))

	stored, err := f.repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", stored.Status)
	assert.Equal(t, "success", stored.PaymentStatus)
	require.NotNil(t, stored.ServiceCompletedAt)

	assert.Equal(t, 1.0, prom.ToFloat64(f.metrics.StatusTransitions.WithLabelValues("completed")))
}

func TestChangeStatus_RecompleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap, barber := bookAndAssign(t, f)
	uc := f.changeStatus(false)

	_, err := uc.Execute(ctx, ChangeStatusInput{Actor: admin, AppointmentID: ap.ID, Status: domain.StatusCompleted})
	require.NoError(t, err)

	// someone claims the barber again before the duplicate call
	claimed, err := f.repo.ClaimBarber(ctx, barber.ID)
	require.NoError(t, err)
	require.True(t, claimed)
	audits := len(f.audit.actions())

	out, err := uc.Execute(ctx, ChangeStatusInput{Actor: admin, AppointmentID: ap.ID, Status: domain.StatusCompleted})

	require.NoError(t, err)
	assert.True(t, out.Transition.Recompleted)
	require.NotNil(t, out.Settlement)
	assert.True(t, dec("750").Equal(out.Settlement.ChargeableAmount))
	assert.False(t, barberAvailable(t, f, barber.ID))
	assert.Len(t, f.audit.actions(), audits)
}

func TestChangeStatus_RemarkRequired(t *testing.T) {
	f := newFixture(t)
	ap, _ := bookAndAssign(t, f)

	for _, s := range []domain.Status{domain.StatusRejected, domain.StatusCancelled} {
		_, err := f.changeStatus(false).Execute(context.Background(), ChangeStatusInput{
			Actor:         admin,
			AppointmentID: ap.ID,
			Status:        s,
		})
		be, ok := httperr.AsBusiness(err)
		require.True(t, ok)
		assert.Equal(t, "remark_required", be.Code)
		assert.Equal(t, 400, httperr.StatusOf(be.Kind))
	}

	stored, err := f.repo.GetAppointment(context.Background(), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", stored.Status)
}

func TestChangeStatus_CompleteWithoutBarber(t *testing.T) {
	f := newFixture(t)
	shop := testutil.Shop(t, f.db, 12.97, 77.59)
	ap := pendingAt(t, f, shop.ID)

	_, err := f.changeStatus(false).Execute(context.Background(), ChangeStatusInput{
		Actor:         admin,
		AppointmentID: ap.ID,
		Status:        domain.StatusCompleted,
	})

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.KindIntegrity, be.Kind)
	assert.Equal(t, "barber not found for this appointment", be.Message)
	assert.Equal(t, 1.0, prom.ToFloat64(f.metrics.TransitionsRejected.WithLabelValues("barber_not_found")))

	stored, err := f.repo.GetAppointment(context.Background(), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", stored.Status)
}

func TestChangeStatus_CancelKeepsBarberByDefault(t *testing.T) {
	f := newFixture(t)
	ap, barber := bookAndAssign(t, f)

	out, err := f.changeStatus(false).Execute(context.Background(), ChangeStatusInput{
		Actor:         admin,
		AppointmentID: ap.ID,
		Status:        domain.StatusCancelled,
		Remark:        "customer no-show",
	})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Appointment.Status)
	assert.Equal(t, "customer no-show", out.Appointment.Remark)
	assert.False(t, barberAvailable(t, f, barber.ID))
}

func TestChangeStatus_CancelReleasesBarberWhenEnabled(t *testing.T) {
	f := newFixture(t)
	ap, barber := bookAndAssign(t, f)

	_, err := f.changeStatus(true).Execute(context.Background(), ChangeStatusInput{
		Actor:         admin,
		AppointmentID: ap.ID,
		Status:        domain.StatusCancelled,
		Remark:        "shop closed early",
	})

	require.NoError(t, err)
	assert.True(t, barberAvailable(t, f, barber.ID))
}

func TestChangeStatus_TerminalStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shop := testutil.Shop(t, f.db, 12.97, 77.59)
	ap := pendingAt(t, f, shop.ID)
	uc := f.changeStatus(false)

	_, err := uc.Execute(ctx, ChangeStatusInput{Actor: admin, AppointmentID: ap.ID, Status: domain.StatusRejected, Remark: "fully booked"})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, ChangeStatusInput{Actor: admin, AppointmentID: ap.ID, Status: domain.StatusAccepted})
	assert.True(t, httperr.IsBusiness(err, "appointment_rejected"))

	_, err = f.assign().Execute(ctx, AssignBarberInput{Actor: admin, AppointmentID: ap.ID})
	assert.True(t, httperr.IsBusiness(err, "appointment_rejected"))
}

func TestChangeStatus_AcceptedCannotBeRejected(t *testing.T) {
	f := newFixture(t)
	ap, _ := bookAndAssign(t, f)

	_, err := f.changeStatus(false).Execute(context.Background(), ChangeStatusInput{
		Actor:         admin,
		AppointmentID: ap.ID,
		Status:        domain.StatusRejected,
		Remark:        "changed my mind",
	})

	assert.True(t, httperr.IsBusiness(err, "accepted_cannot_be_rejected"))
}

func TestChangeStatus_UnknownAppointment(t *testing.T) {
	f := newFixture(t)

	_, err := f.changeStatus(false).Execute(context.Background(), ChangeStatusInput{
		Actor:         admin,
		AppointmentID: uuid.New(),
		Status:        domain.StatusInProgress,
	})

	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestListAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap, barber := bookAndAssign(t, f)

	items, err := NewListAppointments(f.repo).Execute(ctx, domain.ListFilter{BarberID: &barber.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ap.ID, items[0].ID)
	assert.Len(t, items[0].Services, 2)

	got, err := NewGetAppointment(f.repo).Execute(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, ap.Pin, got.Pin)

	_, err = NewGetAppointment(f.repo).Execute(ctx, uuid.New())
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}
