package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/domain/geo"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

// ErrNotFound is returned by repositories when a looked-up row does not exist.
var ErrNotFound = errors.New("record not found")

type ListFilter struct {
	CustomerID *uuid.UUID
	ShopID     *uuid.UUID
	BarberID   *uuid.UUID
	Status     *Status
}

type Repository interface {
	// WithinTransaction runs fn against a repository bound to one database
	// transaction. Returning an error rolls everything back.
	WithinTransaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Shop --------
	GetShop(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Shop, error)

	FindActiveShopsInBox(
		ctx context.Context,
		box geo.Box,
	) ([]models.Shop, error)

	// -------- Service catalog --------
	// FindServices returns the services among ids that belong to shopID.
	FindServices(
		ctx context.Context,
		shopID uuid.UUID,
		ids []uuid.UUID,
	) ([]models.Service, error)

	// -------- Barber --------
	GetBarberInShop(
		ctx context.Context,
		shopID uuid.UUID,
		barberID uuid.UUID,
	) (*models.Barber, error)

	// FindBarberByUser returns the barber record userID holds at shopID.
	FindBarberByUser(
		ctx context.Context,
		shopID uuid.UUID,
		userID uuid.UUID,
	) (*models.Barber, error)

	ListActiveBarbers(
		ctx context.Context,
		shopIDs []uuid.UUID,
	) ([]models.Barber, error)

	// ClaimBarber flips available true -> false and reports whether this call
	// did it. A false result means someone else holds the barber.
	ClaimBarber(
		ctx context.Context,
		barberID uuid.UUID,
	) (bool, error)

	ReleaseBarber(
		ctx context.Context,
		barberID uuid.UUID,
	) error

	// LatestActiveEnds maps each barber to the latest expected end among their
	// accepted or in-progress appointments dated within [from, to).
	LatestActiveEnds(
		ctx context.Context,
		barberIDs []uuid.UUID,
		from time.Time,
		to time.Time,
	) (map[uuid.UUID]time.Time, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	CreateAppointmentService(
		ctx context.Context,
		line *models.AppointmentService,
	) error

	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	// LockAppointment reads the row with SELECT ... FOR UPDATE. Only
	// meaningful inside WithinTransaction.
	LockAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	ListSettlementLines(
		ctx context.Context,
		appointmentID uuid.UUID,
	) ([]models.AppointmentService, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)
}
