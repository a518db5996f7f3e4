package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func pending() *models.Appointment {
	return &models.Appointment{
		ID:              uuid.New(),
		Status:          string(StatusPending),
		PaymentStatus:   string(PaymentPending),
		ServiceDuration: 30,
	}
}

func TestAssign(t *testing.T) {
	ap := pending()
	barber := uuid.New()

	require.NoError(t, Assign(ap, barber, now, 15))

	assert.Equal(t, string(StatusAccepted), ap.Status)
	assert.Equal(t, barber, *ap.BarberID)
	assert.Equal(t, now, *ap.ExpectedStartTime)
	assert.Equal(t, now.Add(45*time.Minute), *ap.ExpectedEndTime)
	assert.Equal(t, 15, *ap.ExtraDuration)
}

func TestAssign_AlreadyAssigned(t *testing.T) {
	ap := pending()
	require.NoError(t, Assign(ap, uuid.New(), now, 0))

	err := Assign(ap, uuid.New(), now, 0)
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
}

func TestAssign_TerminalAppointment(t *testing.T) {
	ap := pending()
	ap.Status = string(StatusCancelled)

	err := Assign(ap, uuid.New(), now, 0)
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "appointment_cancelled", be.Code)
	assert.Nil(t, ap.BarberID)
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(StatusAccepted, ""))
	assert.NoError(t, ValidateRequest(StatusCancelled, "customer left"))

	for _, s := range []Status{StatusRejected, StatusCancelled} {
		err := ValidateRequest(s, "   ")
		be, ok := httperr.AsBusiness(err)
		require.True(t, ok)
		assert.Equal(t, "remark_required", be.Code)
		require.Len(t, be.Fields, 1)
		assert.Equal(t, "remark", be.Fields[0].Field)
	}

	err := ValidateRequest(Status("done"), "")
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

func TestApplyStatus_Complete(t *testing.T) {
	ap := pending()
	require.NoError(t, Assign(ap, uuid.New(), now, 0))

	tr, err := ApplyStatus(ap, StatusCompleted, "", now.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, tr.From)
	assert.False(t, tr.Recompleted)
	assert.True(t, tr.ReleasesBarber(false))
	assert.Equal(t, string(StatusCompleted), ap.Status)
	assert.Equal(t, string(PaymentSuccess), ap.PaymentStatus)
	assert.Equal(t, now.Add(time.Hour), *ap.ServiceCompletedAt)
}

func TestApplyStatus_CompleteWithoutBarber(t *testing.T) {
	ap := pending()

	_, err := ApplyStatus(ap, StatusCompleted, "", now)

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.KindIntegrity, be.Kind)
	assert.Equal(t, "barber_not_found", be.Code)
	assert.Equal(t, string(StatusPending), ap.Status)
}

func TestApplyStatus_Recomplete(t *testing.T) {
	ap := pending()
	require.NoError(t, Assign(ap, uuid.New(), now, 0))
	_, err := ApplyStatus(ap, StatusCompleted, "", now)
	require.NoError(t, err)
	completedAt := *ap.ServiceCompletedAt

	tr, err := ApplyStatus(ap, StatusCompleted, "", now.Add(time.Hour))

	require.NoError(t, err)
	assert.True(t, tr.Recompleted)
	assert.False(t, tr.ReleasesBarber(true))
	assert.Equal(t, completedAt, *ap.ServiceCompletedAt)
}

func TestApplyStatus_CancelKeepsRemark(t *testing.T) {
	ap := pending()
	require.NoError(t, Assign(ap, uuid.New(), now, 0))

	tr, err := ApplyStatus(ap, StatusCancelled, "  running late  ", now)

	require.NoError(t, err)
	assert.Equal(t, string(StatusCancelled), ap.Status)
	assert.Equal(t, "running late", ap.Remark)
	assert.False(t, tr.ReleasesBarber(false))
	assert.True(t, tr.ReleasesBarber(true))
}

func TestApplyStatus_RejectedIsFinal(t *testing.T) {
	ap := pending()
	_, err := ApplyStatus(ap, StatusRejected, "no slots", now)
	require.NoError(t, err)

	for _, to := range Statuses {
		remark := ""
		if RequiresRemark(to) {
			remark = "again"
		}
		_, err := ApplyStatus(ap, to, remark, now)
		assert.Error(t, err)
		assert.Equal(t, string(StatusRejected), ap.Status)
	}
}
