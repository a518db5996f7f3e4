package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/dto"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(
	repo domain.Repository,
) *ListAppointments {
	return &ListAppointments{
		repo: repo,
	}
}

// Execute returns the matching appointments by appointment date, then
// expected start time.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	filter domain.ListFilter,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointments(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for i := range appointments {
		out = append(out, dto.NewAppointmentListDTO(&appointments[i]))
	}
	return out, nil
}

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	id uuid.UUID,
) (*dto.AppointmentListDTO, error) {

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "appointment_not_found", "Appointment not found.")
	}

	out := dto.NewAppointmentListDTO(ap)
	return &out, nil
}
