package controllers

import (
	"net/http"
	"strings"

	"github.com/BrentRieck/Pharm-Tracking/api/responses"
	"github.com/BrentRieck/Pharm-Tracking/api/validators"
	"github.com/BrentRieck/Pharm-Tracking/internal/audit"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
)

// ListAuditLog returns the trail for one entity, newest first. Admin only.
func ListAuditLog(repo *audit.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityType := strings.TrimSpace(r.URL.Query().Get("entity_type"))
		entityID := strings.TrimSpace(r.URL.Query().Get("entity_id"))
		if entityType == "" || entityID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "entity_type and entity_id are required"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := repo.ListForEntity(r.Context(), entityType, entityID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit log"))
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
