package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/audit"
	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/metrics"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/notify"
)

type ChangeStatusInput struct {
	AppointmentID uuid.UUID
	Status        domain.Status
	Remark        string

	Actor domain.Actor
}

type ChangeStatusOutput struct {
	Appointment *models.Appointment
	Transition  domain.Transition

	// Present when the target status is completed.
	Settlement *domain.Settlement
}

type ChangeStatus struct {
	repo            domain.Repository
	audit           Auditor
	notifier        Notifier
	metrics         *metrics.Metrics
	releaseOnCancel bool
	now             Clock
}

// NewChangeStatus builds the lifecycle use case. releaseOnCancel makes
// rejections and cancellations free the assigned barber as completion does.
func NewChangeStatus(
	repo domain.Repository,
	audit Auditor,
	notifier Notifier,
	m *metrics.Metrics,
	releaseOnCancel bool,
) *ChangeStatus {
	return &ChangeStatus{
		repo:            repo,
		audit:           audit,
		notifier:        notifier,
		metrics:         m,
		releaseOnCancel: releaseOnCancel,
		now:             utcNow,
	}
}

func (uc *ChangeStatus) WithClock(now Clock) *ChangeStatus {
	uc.now = now
	return uc
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*ChangeStatusOutput, error) {

	if err := domain.ValidateRequest(in.Status, in.Remark); err != nil {
		return nil, err
	}

	out := &ChangeStatusOutput{}

	err := uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {
		ap, err := tx.LockAppointment(ctx, in.AppointmentID)
		if err != nil {
			return orNotFound(err, "appointment_not_found", "Appointment not found.")
		}
		if err := authorizeStatusChange(ctx, tx, in.Actor, ap, in.Status); err != nil {
			return err
		}

		t, err := domain.ApplyStatus(ap, in.Status, in.Remark, uc.now())
		if err != nil {
			return err
		}

		if t.To == domain.StatusCompleted {
			lines, err := tx.ListSettlementLines(ctx, ap.ID)
			if err != nil {
				return err
			}
			s := domain.Settle(lines)
			out.Settlement = &s
		}

		if !t.Recompleted {
			if err := tx.UpdateAppointment(ctx, ap); err != nil {
				return err
			}
		}

		if t.ReleasesBarber(uc.releaseOnCancel) {
			if err := tx.ReleaseBarber(ctx, *t.BarberID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return httperr.IntegrityErr("barber_not_found", "barber not found for this appointment")
				}
				return err
			}
		}

		out.Appointment = ap
		out.Transition = t
		return nil
	})
	if err != nil {
		if be, ok := httperr.AsBusiness(err); ok {
			uc.metrics.StatusRejected(be.Code)
		}
		return nil, err
	}

	if out.Transition.Recompleted {
		return out, nil
	}

	ap := out.Appointment
	uc.metrics.StatusChanged(ap.Status)

	uc.audit.Dispatch(audit.Event{
		ShopID:   &ap.ShopID,
		UserID:   &in.Actor.ID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"from":            out.Transition.From,
			"to":              out.Transition.To,
			"remark":          ap.Remark,
			"barber_released": out.Transition.ReleasesBarber(uc.releaseOnCancel),
		},
	})

	uc.notifier.Notify(notify.Notification{
		UserID: ap.CustomerID,
		Title:  "Appointment " + out.Transition.To.Label(),
		Body:   fmt.Sprintf("Your appointment is now %s.", out.Transition.To.Label()),
		Data: map[string]string{
			"appointment_id": ap.ID.String(),
			"status":         ap.Status,
		},
	})

	return out, nil
}
