package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/api/middleware"
	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
)

// actorID extracts the authenticated user's id from the request context.
func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// resolveScope resolves the caller's office visibility for this request.
// Visibility is computed fresh on every call rather than cached in the
// token, so membership changes apply immediately.
func resolveScope(r *http.Request, scopes scope.Service) (uuid.UUID, scope.Scope, error) {
	userID, err := actorID(r)
	if err != nil {
		return uuid.Nil, scope.Scope{}, err
	}
	sc, err := scopes.ResolveOfficeScope(r.Context(), userID)
	if err != nil {
		return uuid.Nil, scope.Scope{}, err
	}
	return userID, sc, nil
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key)
	}
	return id, nil
}
