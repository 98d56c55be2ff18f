package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/api/responses"
	"github.com/BrentRieck/Pharm-Tracking/api/validators"
	"github.com/BrentRieck/Pharm-Tracking/internal/audit"
	"github.com/BrentRieck/Pharm-Tracking/internal/inventory"
	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
)

// scopeForReport narrows the caller's visibility to one office when the
// office query parameter is present.
func scopeForReport(r *http.Request, scopes scope.Service) (uuid.UUID, scope.Scope, error) {
	actor, sc, err := resolveScope(r, scopes)
	if err != nil {
		return uuid.Nil, scope.Scope{}, err
	}
	officeID, err := validators.ParseQueryUUID(r, "office")
	if err != nil {
		return uuid.Nil, scope.Scope{}, err
	}
	if officeID != uuid.Nil && !sc.Allows(officeID) {
		// a filter on an office outside the caller's scope reads the
		// same as an office that does not exist
		return uuid.Nil, scope.Scope{}, pkgerrors.New(pkgerrors.CodeNotFound, "office not found")
	}
	return actor, sc.Narrow(officeID), nil
}

// ActiveLotsReport lists usable stock across the caller's offices.
func ActiveLotsReport(svc inventory.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sc, err := scopeForReport(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ActiveLots(r.Context(), sc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ExpiringReport lists usable lots expiring inside the requested window.
// Omitting days falls back to the configured default.
func ExpiringReport(svc inventory.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sc, err := scopeForReport(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		days := inventory.DefaultWindow
		if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "days must be an integer"))
				return
			}
			days = value
		}
		rows, err := svc.ExpiringWithin(r.Context(), sc, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ExpiredReport lists lots already past their expiration date.
func ExpiredReport(svc inventory.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sc, err := scopeForReport(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.Expired(r.Context(), sc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// SummaryReport aggregates usable stock per office and medication.
func SummaryReport(svc inventory.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sc, err := scopeForReport(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.Summary(r.Context(), sc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory.GroupSummaryByOffice(rows))
	}
}

// SummaryCSVExport streams the summary as a CSV attachment and leaves an
// export entry in the audit log.
func SummaryCSVExport(svc inventory.Service, scopes scope.Service, rec audit.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, sc, err := scopeForReport(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.Summary(r.Context(), sc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rec.Record(r.Context(), audit.Entry{
			ActorID:    &actor,
			Action:     enums.AuditActionExport,
			EntityType: "inventory_summary",
			EntityID:   "csv",
			Snapshot:   map[string]any{"rows": len(rows)},
		})

		filename := fmt.Sprintf("inventory-summary-%s.csv", time.Now().UTC().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		if err := inventory.WriteSummaryCSV(w, rows); err != nil {
			logg.Error(r.Context(), "write summary csv", err)
		}
	}
}

// ExpiringCSVExport streams the expiring-lots report as a CSV attachment.
// Accepts the same days and office parameters as the JSON report.
func ExpiringCSVExport(svc inventory.Service, scopes scope.Service, rec audit.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, sc, err := scopeForReport(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		days := inventory.DefaultWindow
		if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "days must be an integer"))
				return
			}
			days = value
		}
		rows, err := svc.ExpiringWithin(r.Context(), sc, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rec.Record(r.Context(), audit.Entry{
			ActorID:    &actor,
			Action:     enums.AuditActionExport,
			EntityType: "expiring_lots",
			EntityID:   "csv",
			Snapshot:   map[string]any{"rows": len(rows), "days": days},
		})

		filename := fmt.Sprintf("expiring-lots-%s.csv", time.Now().UTC().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		if err := inventory.WriteExpiringCSV(w, rows); err != nil {
			logg.Error(r.Context(), "write expiring csv", err)
		}
	}
}

// NextExpiringReport returns lots grouped into the 30/60/90-day horizons,
// or a custom comma-separated horizons parameter.
func NextExpiringReport(svc inventory.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sc, err := scopeForReport(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var horizons []int
		if raw := strings.TrimSpace(r.URL.Query().Get("horizons")); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				value, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "horizons must be comma-separated integers"))
					return
				}
				horizons = append(horizons, value)
			}
		}

		buckets, err := svc.NextExpiring(r.Context(), sc, horizons)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buckets)
	}
}
