package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BrentRieck/Pharm-Tracking/internal/cron"
	"github.com/BrentRieck/Pharm-Tracking/internal/inventory"
	"github.com/BrentRieck/Pharm-Tracking/internal/memberships"
	"github.com/BrentRieck/Pharm-Tracking/internal/notifications"
	"github.com/BrentRieck/Pharm-Tracking/internal/offices"
	"github.com/BrentRieck/Pharm-Tracking/internal/stock"
	"github.com/BrentRieck/Pharm-Tracking/internal/users"
	"github.com/BrentRieck/Pharm-Tracking/pkg/config"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
	"github.com/BrentRieck/Pharm-Tracking/pkg/metrics"
	"github.com/BrentRieck/Pharm-Tracking/pkg/migrate"
	"github.com/BrentRieck/Pharm-Tracking/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()

	inventoryService, err := inventory.NewService(inventory.NewRepository(gormDB), cfg.Inventory.DefaultExpiryDays)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	officesRepo := offices.NewRepository(gormDB)
	membershipsRepo := memberships.NewRepository(gormDB)
	usersRepo := users.NewRepository(gormDB)
	stockRepo := stock.NewRepository(gormDB)

	digestJob, err := cron.NewExpiryDigestJob(cron.ExpiryDigestJobParams{
		Logger:    logg,
		Offices:   officesRepo,
		Inventory: inventoryService,
		Members:   membershipsRepo,
		Admins:    usersRepo,
		Notifier:  notificationsService,
		Horizons:  cfg.Inventory.DigestHorizonsDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create expiry digest job", err)
		os.Exit(1)
	}

	lowStockJob, err := cron.NewLowStockJob(cron.LowStockJobParams{
		Logger:   logg,
		Stock:    stockRepo,
		Members:  membershipsRepo,
		Notifier: notificationsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create low stock job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockName(cfg.App.Env)), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(digestJob, lowStockJob),
		Lock:     lock,
		Metrics:  metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockName(env string) string {
	if env == "" {
		env = "local"
	}
	return "cron-worker:" + env
}
