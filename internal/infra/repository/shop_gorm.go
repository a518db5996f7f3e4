package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/domain/geo"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

type ShopGormRepository struct {
	db *gorm.DB
}

func NewShopGormRepository(db *gorm.DB) *ShopGormRepository {
	return &ShopGormRepository{db: db}
}

func (r *ShopGormRepository) FindActiveShopsInBox(
	ctx context.Context,
	box geo.Box,
) ([]models.Shop, error) {
	return findActiveShopsInBox(r.db.WithContext(ctx), box)
}

// GetBarberWithShop loads the barber and its shop, for ownership checks.
func (r *ShopGormRepository) GetBarberWithShop(
	ctx context.Context,
	barberID uuid.UUID,
) (*models.Barber, *models.Shop, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		First(&barber, "id = ?", barberID).Error; err != nil {
		return nil, nil, notFound(err)
	}

	var shop models.Shop
	if err := r.db.WithContext(ctx).
		First(&shop, "id = ?", barber.ShopID).Error; err != nil {
		return nil, nil, notFound(err)
	}
	return &barber, &shop, nil
}

func (r *ShopGormRepository) SetBarberAvailability(
	ctx context.Context,
	barberID uuid.UUID,
	available bool,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", barberID).
		Update("available", available).Error
}
