package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/domain/geo"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

var activeStatuses = []string{
	string(domain.StatusAccepted),
	string(domain.StatusInProgress),
}

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) WithinTransaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Shop
// --------------------------------------------------

func (r *AppointmentGormRepository) GetShop(
	ctx context.Context,
	id uuid.UUID,
) (*models.Shop, error) {

	var shop models.Shop
	if err := r.db.WithContext(ctx).
		Preload("Location").
		First(&shop, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) FindActiveShopsInBox(
	ctx context.Context,
	box geo.Box,
) ([]models.Shop, error) {
	return findActiveShopsInBox(r.db.WithContext(ctx), box)
}

// findActiveShopsInBox pre-filters shops with bound coordinates; exact
// distances are computed by the caller.
func findActiveShopsInBox(db *gorm.DB, box geo.Box) ([]models.Shop, error) {
	var shops []models.Shop
	err := db.
		Joins("Location").
		Where("shops.status = ?", models.StatusActive).
		Where(`"Location".latitude BETWEEN ? AND ?`, box.MinLat, box.MaxLat).
		Where(`"Location".longitude BETWEEN ? AND ?`, box.MinLon, box.MaxLon).
		Order("shops.id ASC").
		Find(&shops).Error
	return shops, err
}

// --------------------------------------------------
// Service catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) FindServices(
	ctx context.Context,
	shopID uuid.UUID,
	ids []uuid.UUID,
) ([]models.Service, error) {

	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND shop_id = ?", ids, shopID).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarberInShop(
	ctx context.Context,
	shopID uuid.UUID,
	barberID uuid.UUID,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ?", barberID, shopID).
		First(&barber).Error; err != nil {
		return nil, notFound(err)
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) FindBarberByUser(
	ctx context.Context,
	shopID uuid.UUID,
	userID uuid.UUID,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		First(&barber).Error; err != nil {
		return nil, notFound(err)
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) ListActiveBarbers(
	ctx context.Context,
	shopIDs []uuid.UUID,
) ([]models.Barber, error) {

	var barbers []models.Barber
	if len(shopIDs) == 0 {
		return barbers, nil
	}
	if err := r.db.WithContext(ctx).
		Where("shop_id IN ? AND status = ?", shopIDs, models.StatusActive).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *AppointmentGormRepository) ClaimBarber(
	ctx context.Context,
	barberID uuid.UUID,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ? AND available = ?", barberID, true).
		Update("available", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AppointmentGormRepository) ReleaseBarber(
	ctx context.Context,
	barberID uuid.UUID,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", barberID).
		Update("available", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) LatestActiveEnds(
	ctx context.Context,
	barberIDs []uuid.UUID,
	from time.Time,
	to time.Time,
) (map[uuid.UUID]time.Time, error) {

	ends := make(map[uuid.UUID]time.Time, len(barberIDs))
	if len(barberIDs) == 0 {
		return ends, nil
	}

	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("barber_id", "expected_end_time").
		Where("barber_id IN ?", barberIDs).
		Where("status IN ?", activeStatuses).
		Where("appointment_date >= ? AND appointment_date < ?", from, to).
		Where("expected_end_time IS NOT NULL").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row.BarberID == nil || row.ExpectedEndTime == nil {
			continue
		}
		if cur, ok := ends[*row.BarberID]; !ok || row.ExpectedEndTime.After(cur) {
			ends[*row.BarberID] = *row.ExpectedEndTime
		}
	}
	return ends, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) CreateAppointmentService(
	ctx context.Context,
	line *models.AppointmentService,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&ap, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) LockAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListSettlementLines(
	ctx context.Context,
	appointmentID uuid.UUID,
) ([]models.AppointmentService, error) {

	var lines []models.AppointmentService
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ShopID != nil {
		q = q.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.BarberID != nil {
		q = q.Where("barber_id = ?", *filter.BarberID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}

	var apps []models.Appointment
	if err := q.
		Preload("Services").
		Order("appointment_date ASC").
		Order("expected_start_time IS NULL").
		Order("expected_start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
