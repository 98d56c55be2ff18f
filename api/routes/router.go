package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BrentRieck/Pharm-Tracking/api/controllers"
	"github.com/BrentRieck/Pharm-Tracking/api/middleware"
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
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
	"github.com/BrentRieck/Pharm-Tracking/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth          auth.Service
	Scope         scope.Service
	Offices       offices.Service
	Medications   medications.Service
	Stock         stock.Service
	Inventory     inventory.Service
	Users         users.Service
	Memberships   memberships.Service
	Notifications notifications.Service
	Audit         audit.Recorder
	AuditRepo     *audit.Repository
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbc *db.Client,
	rdb *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbc, rdb, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(svcs.Auth, logg))
		r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.Logout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/offices", func(r chi.Router) {
			r.Get("/", controllers.ListOffices(svcs.Offices, svcs.Scope, logg))
			r.Get("/{officeID}", controllers.GetOffice(svcs.Offices, svcs.Scope, logg))

			r.Route("/{officeID}/stock", func(r chi.Router) {
				r.Get("/", controllers.ListOfficeStock(svcs.Stock, svcs.Scope, logg))
				r.Post("/", controllers.LinkMedication(svcs.Stock, svcs.Scope, logg))
			})
		})

		r.Route("/stock/{linkID}", func(r chi.Router) {
			r.Patch("/", controllers.UpdateStockLink(svcs.Stock, svcs.Scope, logg))
			r.Delete("/", controllers.UnlinkMedication(svcs.Stock, svcs.Scope, logg))
			r.Get("/lots", controllers.ListLots(svcs.Stock, svcs.Scope, logg))
			r.Post("/lots", controllers.CreateLot(svcs.Stock, svcs.Scope, logg))
		})

		r.Route("/lots/{lotID}", func(r chi.Router) {
			r.Patch("/", controllers.UpdateLot(svcs.Stock, svcs.Scope, logg))
			r.Delete("/", controllers.DeactivateLot(svcs.Stock, svcs.Scope, logg))
			r.Post("/audited", controllers.MarkLotAudited(svcs.Stock, svcs.Scope, logg))
		})

		r.Route("/medications", func(r chi.Router) {
			r.Get("/", controllers.ListMedications(svcs.Medications, logg))
			r.Get("/{medicationID}", controllers.GetMedication(svcs.Medications, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/active", controllers.ActiveLotsReport(svcs.Inventory, svcs.Scope, logg))
			r.Get("/expiring", controllers.ExpiringReport(svcs.Inventory, svcs.Scope, logg))
			r.Get("/expiring/export", controllers.ExpiringCSVExport(svcs.Inventory, svcs.Scope, svcs.Audit, logg))
			r.Get("/expired", controllers.ExpiredReport(svcs.Inventory, svcs.Scope, logg))
			r.Get("/summary", controllers.SummaryReport(svcs.Inventory, svcs.Scope, logg))
			r.Get("/summary/export", controllers.SummaryCSVExport(svcs.Inventory, svcs.Scope, svcs.Audit, logg))
			r.Get("/next-expiring", controllers.NextExpiringReport(svcs.Inventory, svcs.Scope, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/offices", func(r chi.Router) {
			r.Post("/", controllers.CreateOffice(svcs.Offices, logg))
			r.Patch("/{officeID}", controllers.UpdateOffice(svcs.Offices, logg))
			r.Delete("/{officeID}", controllers.DeactivateOffice(svcs.Offices, logg))

			r.Route("/{officeID}/members", func(r chi.Router) {
				r.Get("/", controllers.ListOfficeMembers(svcs.Memberships, logg))
				r.Post("/", controllers.AddOfficeMember(svcs.Memberships, logg))
				r.Delete("/{userID}", controllers.RemoveOfficeMember(svcs.Memberships, logg))
			})
		})

		r.Route("/medications", func(r chi.Router) {
			r.Post("/", controllers.CreateMedication(svcs.Medications, logg))
			r.Patch("/{medicationID}", controllers.UpdateMedication(svcs.Medications, logg))
			r.Delete("/{medicationID}", controllers.DeactivateMedication(svcs.Medications, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.ListUsers(svcs.Users, logg))
			r.Post("/", controllers.CreateUser(svcs.Users, logg))
			r.Get("/{userID}", controllers.GetUser(svcs.Users, logg))
			r.Patch("/{userID}/active", controllers.SetUserActive(svcs.Users, logg))
		})

		r.Get("/audit-log", controllers.ListAuditLog(svcs.AuditRepo, logg))
	})

	return r
}
