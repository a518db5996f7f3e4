// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

// NewDB opens a migrated in-memory sqlite database. A single connection keeps
// the memory database shared and serialises transactions.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// Shop creates an active shop at the given coordinates.
func Shop(t testing.TB, db *gorm.DB, lat, lon float64, opts ...func(*models.Shop)) *models.Shop {
	t.Helper()

	shop := &models.Shop{
		VendorID:  uuid.New(),
		Name:      "Shop " + uuid.NewString()[:8],
		OpenTime:  "09:00",
		CloseTime: "21:00",
		Status:    models.StatusActive,
		Timezone:  "UTC",
	}
	for _, o := range opts {
		o(shop)
	}
	require.NoError(t, db.Omit("Location", "Services", "Barbers").Create(shop).Error)

	loc := &models.ShopLocation{ShopID: shop.ID, City: "Bengaluru", Latitude: lat, Longitude: lon}
	require.NoError(t, db.Create(loc).Error)
	shop.Location = loc
	return shop
}

// Barber creates an active barber in the shop.
func Barber(t testing.TB, db *gorm.DB, shopID uuid.UUID, available bool, opts ...func(*models.Barber)) *models.Barber {
	t.Helper()

	b := &models.Barber{
		UserID:    uuid.New(),
		ShopID:    shopID,
		Name:      "Barber " + uuid.NewString()[:8],
		Gender:    models.GenderMale,
		Status:    models.StatusActive,
		Available: available,
	}
	for _, o := range opts {
		o(b)
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

// Service creates an active catalog service. discount may be empty.
func Service(t testing.TB, db *gorm.DB, shopID uuid.UUID, name string, duration int, price, discount string) *models.Service {
	t.Helper()

	s := &models.Service{
		ShopID:   shopID,
		Name:     name,
		Duration: duration,
		Price:    decimal.RequireFromString(price),
		Gender:   models.GenderUnisex,
		IsActive: true,
	}
	if discount != "" {
		d := decimal.RequireFromString(discount)
		s.DiscountedPrice = &d
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

// Appointment inserts an appointment row directly, bypassing the use cases.
func Appointment(t testing.TB, db *gorm.DB, ap *models.Appointment) *models.Appointment {
	t.Helper()

	if ap.CustomerID == uuid.Nil {
		ap.CustomerID = uuid.New()
	}
	if ap.BookingTime.IsZero() {
		ap.BookingTime = time.Now().UTC()
	}
	if ap.Status == "" {
		ap.Status = "pending"
	}
	if ap.PaymentStatus == "" {
		ap.PaymentStatus = "pending"
	}
	if ap.PaymentMode == "" {
		ap.PaymentMode = "cash"
	}
	if ap.ServiceDuration == 0 {
		ap.ServiceDuration = 30
	}
	require.NoError(t, db.Omit("Shop", "Barber", "Services").Create(ap).Error)
	return ap
}
