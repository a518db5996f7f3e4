package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/audit"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/hyperlocal-booking/internal/db"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/infra/blacklist"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/metrics"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/notify"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/routes"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/validators"
	"github.com/BruksfildServices01/hyperlocal-booking/pkg/logger"
)

const notificationQueueSize = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(logger.Config{Level: cfg.LogLevel, Pretty: !cfg.IsProduction()})
	httperr.SetStackTraces(!cfg.IsProduction())
	validators.Register()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// ------------------------------
	// Redis (optional)
	// ------------------------------
	var (
		rdb     *redis.Client
		revoked blacklist.Store = blacklist.NewMemoryStore()
		sender  notify.Sender   = notify.LogSender{}
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		revoked = blacklist.NewRedisStore(rdb)
		sender = notify.NewRedisPublisher(rdb, cfg.NotificationChannel)
	} else {
		log.Warn().Msg("REDIS_URL not set: using in-process token blacklist and log-only notifications")
	}

	// ------------------------------
	// Side effects
	// ------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	notifier := notify.NewDispatcher(sender, notificationQueueSize)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Config:    cfg,
		DB:        db,
		Redis:     rdb,
		Blacklist: revoked,
		Audit:     auditDispatcher,
		Notifier:  notifier,
		Metrics:   m,
		Gatherer:  reg,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Flush queued side effects before the connections go away.
	notifier.Close()
	auditDispatcher.Close()

	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("server exited properly")
}
