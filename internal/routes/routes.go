package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/audit"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/config"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/handlers"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/infra/blacklist"
	infraRepo "github.com/BruksfildServices01/hyperlocal-booking/internal/infra/repository"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/metrics"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/middleware"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/notify"
	ucAppointment "github.com/BruksfildServices01/hyperlocal-booking/internal/usecase/appointment"
	ucShop "github.com/BruksfildServices01/hyperlocal-booking/internal/usecase/shop"
)

// Deps are the process-wide singletons the HTTP surface is built on.
// Redis is optional.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Blacklist blacklist.Store
	Audit     *audit.Dispatcher
	Notifier  *notify.Dispatcher
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Metrics(d.Metrics),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	shopRepo := infraRepo.NewShopGormRepository(d.DB)

	// ======================================================
	// USE CASES
	// ======================================================
	bookUC := ucAppointment.NewBookAppointment(
		appointmentRepo,
		d.Audit,
		d.Notifier,
		d.Metrics,
		ucAppointment.SearchRadius{DefaultKm: cfg.DefaultRadiusKm, MaxKm: cfg.MaxRadiusKm},
	)
	assignUC := ucAppointment.NewAssignBarber(appointmentRepo, d.Audit, d.Notifier, d.Metrics)
	changeStatusUC := ucAppointment.NewChangeStatus(
		appointmentRepo,
		d.Audit,
		d.Notifier,
		d.Metrics,
		cfg.ReleaseBarberOnCancel,
	)
	listUC := ucAppointment.NewListAppointments(appointmentRepo)
	getUC := ucAppointment.NewGetAppointment(appointmentRepo)

	nearbyUC := ucShop.NewFindNearbyShops(shopRepo, cfg.DefaultRadiusKm, cfg.MaxRadiusKm)
	toggleUC := ucShop.NewToggleBarberAvailability(shopRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(bookUC, assignUC, changeStatusUC, listUC, getUC)
	shopHandler := handlers.NewShopHandler(nearbyUC, toggleUC)
	metaHandler := handlers.NewMetaHandler()
	authHandler := handlers.NewAuthHandler(d.Blacklist)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Redis)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health/live", healthHandler.Live)
	r.GET("/health/ready", healthHandler.Ready)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
	{
		api.GET("/appointment-statuses", metaHandler.AppointmentStatuses)
		api.GET("/payment-modes", metaHandler.PaymentModes)
		api.GET("/shops/nearby", shopHandler.Nearby)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret, d.Blacklist))
		{
			secured.POST("/auth/logout", authHandler.Logout)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments",
				middleware.RequireRole(ucShop.RoleUser, ucShop.RoleAdmin),
				appointmentHandler.Book)
			secured.PATCH("/appointments/assign",
				middleware.RequireRole(ucShop.RoleVendor, ucShop.RoleBarber, ucShop.RoleAdmin),
				appointmentHandler.Assign)
			secured.PATCH("/appointments/status", appointmentHandler.ChangeStatus)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id", appointmentHandler.Get)

			// ------------------------------
			// SHOPS / BARBERS
			// ------------------------------
			secured.PATCH("/barbers/:id/availability", shopHandler.ToggleAvailability)
			secured.GET("/shops/:id/audit-logs",
				middleware.RequireRole(ucShop.RoleVendor, ucShop.RoleAdmin),
				auditLogsHandler.List)
		}
	}
}
