package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/BrentRieck/Pharm-Tracking/api/routes"
	"github.com/BrentRieck/Pharm-Tracking/internal/audit"
	"github.com/BrentRieck/Pharm-Tracking/internal/auth"
	"github.com/BrentRieck/Pharm-Tracking/internal/inventory"
	"github.com/BrentRieck/Pharm-Tracking/internal/medications"
	"github.com/BrentRieck/Pharm-Tracking/internal/memberships"
	"github.com/BrentRieck/Pharm-Tracking/internal/notifications"
	"github.com/BrentRieck/Pharm-Tracking/internal/offices"
	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	"github.com/BrentRieck/Pharm-Tracking/internal/stock"
	"github.com/BrentRieck/Pharm-Tracking/internal/users"
	"github.com/BrentRieck/Pharm-Tracking/pkg/auth/session"
	"github.com/BrentRieck/Pharm-Tracking/pkg/config"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
	"github.com/BrentRieck/Pharm-Tracking/pkg/migrate"
	"github.com/BrentRieck/Pharm-Tracking/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	membershipsRepo := memberships.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	recorder := audit.NewRecorder(auditRepo, logg)

	if err := auth.EnsureAdmin(context.Background(), usersRepo, cfg, logg); err != nil {
		logg.Error(context.Background(), "failed to bootstrap admin account", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		Audit:          recorder,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	scopeService, err := scope.NewService(usersRepo, membershipsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create scope service", err)
		os.Exit(1)
	}

	officesService, err := offices.NewService(offices.NewRepository(gormDB), recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create offices service", err)
		os.Exit(1)
	}

	medicationsService, err := medications.NewService(medications.NewRepository(gormDB), recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create medications service", err)
		os.Exit(1)
	}

	stockService, err := stock.NewService(stock.NewRepository(gormDB), recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(gormDB), cfg.Inventory.DefaultExpiryDays)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, recorder, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	membershipsService, err := memberships.NewService(membershipsRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create memberships service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, routes.Services{
			Auth:          authService,
			Scope:         scopeService,
			Offices:       officesService,
			Medications:   medicationsService,
			Stock:         stockService,
			Inventory:     inventoryService,
			Users:         usersService,
			Memberships:   membershipsService,
			Notifications: notificationsService,
			Audit:         recorder,
			AuditRepo:     auditRepo,
		}),
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
