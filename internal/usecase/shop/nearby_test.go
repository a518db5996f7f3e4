package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/infra/repository"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/testutil"
)

func TestFindNearbyShops(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewFindNearbyShops(repository.NewShopGormRepository(db), 5, 50)

	far := testutil.Shop(t, db, 12.9926, 77.5946)
	near := testutil.Shop(t, db, 12.9752, 77.5946)
	testutil.Shop(t, db, 12.9740, 77.5946, func(s *models.Shop) { s.Status = models.StatusDisabled })
	testutil.Shop(t, db, 13.0827, 80.2707)

	shops, err := uc.Execute(context.Background(), NearbyShopsInput{Latitude: 12.9716, Longitude: 77.5946})

	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, near.ID, shops[0].Shop.ID)
	assert.Equal(t, "400 m", shops[0].Distance)
	assert.Equal(t, far.ID, shops[1].Shop.ID)
	assert.Contains(t, shops[1].Distance, " km")
	assert.LessOrEqual(t, shops[0].DistanceKm, shops[1].DistanceKm)
}

func TestFindNearbyShops_RadiusNarrowsResult(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewFindNearbyShops(repository.NewShopGormRepository(db), 5, 50)

	testutil.Shop(t, db, 12.9926, 77.5946)
	near := testutil.Shop(t, db, 12.9752, 77.5946)

	radius := 1.0
	shops, err := uc.Execute(context.Background(), NearbyShopsInput{Latitude: 12.9716, Longitude: 77.5946, RadiusKm: &radius})

	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, near.ID, shops[0].Shop.ID)
}

func TestFindNearbyShops_EmptyIsNotAnError(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewFindNearbyShops(repository.NewShopGormRepository(db), 5, 50)

	shops, err := uc.Execute(context.Background(), NearbyShopsInput{Latitude: 0, Longitude: 0})

	require.NoError(t, err)
	assert.Empty(t, shops)
}

func TestFindNearbyShops_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewFindNearbyShops(repository.NewShopGormRepository(db), 5, 50)

	tooFar := 80.0
	_, err := uc.Execute(context.Background(), NearbyShopsInput{Latitude: 95, Longitude: 0, RadiusKm: &tooFar})

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.KindValidation, be.Kind)
	assert.Len(t, be.Fields, 2)
}
