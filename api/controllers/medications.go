package controllers

import (
	"net/http"

	"github.com/BrentRieck/Pharm-Tracking/api/responses"
	"github.com/BrentRieck/Pharm-Tracking/api/validators"
	"github.com/BrentRieck/Pharm-Tracking/internal/medications"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
)

type createMedicationPayload struct {
	GenericName string `json:"generic_name" validate:"required,max=200"`
	NDC         string `json:"ndc" validate:"max=20"`
	Strength    string `json:"strength" validate:"max=100"`
	Form        string `json:"form" validate:"max=100"`
	DefaultUnit string `json:"default_unit" validate:"max=50"`
}

type updateMedicationPayload struct {
	GenericName *string `json:"generic_name" validate:"omitempty,min=1,max=200"`
	NDC         *string `json:"ndc" validate:"omitempty,max=20"`
	Strength    *string `json:"strength" validate:"omitempty,max=100"`
	Form        *string `json:"form" validate:"omitempty,max=100"`
	DefaultUnit *string `json:"default_unit" validate:"omitempty,max=50"`
}

// ListMedications returns the catalog. The catalog is office-independent,
// so every authenticated user sees the same entries.
func ListMedications(svc medications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := validators.SanitizeString(r.URL.Query().Get("search"), 200)
		rows, err := svc.List(r.Context(), search)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetMedication returns one catalog entry.
func GetMedication(svc medications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "medicationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		med, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, med)
	}
}

// CreateMedication adds a catalog entry. Admin only.
func CreateMedication(svc medications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createMedicationPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		med, err := svc.Create(r.Context(), actor, medications.CreateMedicationInput{
			GenericName: payload.GenericName,
			NDC:         payload.NDC,
			Strength:    payload.Strength,
			Form:        payload.Form,
			DefaultUnit: payload.DefaultUnit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, med)
	}
}

// UpdateMedication edits a catalog entry. Admin only.
func UpdateMedication(svc medications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "medicationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateMedicationPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		med, err := svc.Update(r.Context(), actor, id, medications.UpdateMedicationInput{
			GenericName: payload.GenericName,
			NDC:         payload.NDC,
			Strength:    payload.Strength,
			Form:        payload.Form,
			DefaultUnit: payload.DefaultUnit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, med)
	}
}

// DeactivateMedication retires a catalog entry. Admin only.
func DeactivateMedication(svc medications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "medicationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Deactivate(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
