package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/domain/allocator"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// CanAssign reports whether a barber may still be assigned to ap.
func CanAssign(ap *models.Appointment) error {
	if err := CanTransition(Status(ap.Status), StatusAccepted); err != nil {
		return err
	}
	if ap.BarberID != nil {
		return httperr.ConflictErr("appointment_already_assigned", "A barber is already assigned to this appointment.")
	}
	return nil
}

// Assign records the barber chosen by the allocator and accepts the appointment.
func Assign(ap *models.Appointment, barberID uuid.UUID, start time.Time, extraMin int) error {
	if err := CanAssign(ap); err != nil {
		return err
	}

	end := allocator.ExpectedEnd(start, ap.ServiceDuration, extraMin)

	ap.BarberID = &barberID
	ap.ExpectedStartTime = &start
	ap.ExpectedEndTime = &end
	ap.ExtraDuration = &extraMin
	ap.Status = string(StatusAccepted)
	return nil
}

type Transition struct {
	From Status
	To   Status

	// Recompleted is a completed -> completed call; nothing is changed.
	Recompleted bool
	BarberID    *uuid.UUID
}

// ReleasesBarber reports whether the assigned barber becomes available again.
// Only a first completion does, unless releaseOnCancel extends it to
// rejections and cancellations.
func (t Transition) ReleasesBarber(releaseOnCancel bool) bool {
	if t.BarberID == nil {
		return false
	}
	if t.To == StatusCompleted {
		return !t.Recompleted
	}
	return releaseOnCancel && RequiresRemark(t.To)
}

// ValidateRequest checks a status change request before any state is read.
func ValidateRequest(to Status, remark string) error {
	if !to.Valid() {
		return httperr.ValidationErr("invalid_status", "Unknown appointment status.",
			httperr.FieldError{Field: "status", Message: "must be one of: pending accepted in-progress completed rejected cancelled"})
	}
	if RequiresRemark(to) && strings.TrimSpace(remark) == "" {
		return httperr.ValidationErr("remark_required", "A remark is required to reject or cancel an appointment.",
			httperr.FieldError{Field: "remark", Message: "is required for this status"})
	}
	return nil
}

func ApplyStatus(ap *models.Appointment, to Status, remark string, now time.Time) (Transition, error) {
	if err := ValidateRequest(to, remark); err != nil {
		return Transition{}, err
	}
	remark = strings.TrimSpace(remark)

	from := Status(ap.Status)
	if err := CanTransition(from, to); err != nil {
		return Transition{}, err
	}

	t := Transition{From: from, To: to, BarberID: ap.BarberID}

	if to == StatusCompleted {
		if from == StatusCompleted {
			t.Recompleted = true
			return t, nil
		}
		if ap.BarberID == nil {
			return Transition{}, httperr.IntegrityErr("barber_not_found", "barber not found for this appointment")
		}
		ap.ServiceCompletedAt = &now
		ap.PaymentStatus = string(PaymentSuccess)
	}

	ap.Status = string(to)
	if remark != "" {
		ap.Remark = remark
	}
	return t, nil
}
