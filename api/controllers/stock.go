package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/api/responses"
	"github.com/BrentRieck/Pharm-Tracking/api/validators"
	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	"github.com/BrentRieck/Pharm-Tracking/internal/stock"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
)

const dateLayout = "2006-01-02"

type linkMedicationPayload struct {
	MedicationID     string `json:"medication_id" validate:"required,uuid"`
	ReorderThreshold *int   `json:"reorder_threshold" validate:"omitempty,gte=0"`
	Notes            string `json:"notes" validate:"max=2000"`
}

type updateLinkPayload struct {
	ReorderThreshold *int    `json:"reorder_threshold" validate:"omitempty,gte=0"`
	ClearThreshold   bool    `json:"clear_threshold"`
	Notes            *string `json:"notes" validate:"omitempty,max=2000"`
}

type createLotPayload struct {
	LotNumber    string `json:"lot_number" validate:"max=64"`
	Qty          int    `json:"qty" validate:"gte=0"`
	ExpDate      string `json:"exp_date" validate:"required"`
	ReceivedDate string `json:"received_date" validate:"omitempty"`
}

type updateLotPayload struct {
	LotNumber *string `json:"lot_number" validate:"omitempty,max=64"`
	Qty       *int    `json:"qty" validate:"omitempty,gte=0"`
	ExpDate   *string `json:"exp_date" validate:"omitempty"`
	Status    *string `json:"status" validate:"omitempty,oneof=active discarded used_up"`
}

func parseDate(value, field string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, field+" must be formatted YYYY-MM-DD")
	}
	return parsed, nil
}

// LinkMedication adds a medication to an office's stock list.
func LinkMedication(svc stock.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		officeID, err := pathUUID(r, "officeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sc, err := scopes.AuthorizeOffice(r.Context(), actor, officeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload linkMedicationPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		medicationID, err := uuid.Parse(payload.MedicationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid medication_id"))
			return
		}

		link, err := svc.LinkMedication(r.Context(), actor, sc, stock.LinkMedicationInput{
			OfficeID:         officeID,
			MedicationID:     medicationID,
			ReorderThreshold: payload.ReorderThreshold,
			Notes:            payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

// ListOfficeStock returns an office's stock list.
func ListOfficeStock(svc stock.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		officeID, err := pathUUID(r, "officeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sc, err := scopes.AuthorizeOffice(r.Context(), actor, officeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListOfficeStock(r.Context(), sc, officeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// UpdateStockLink edits a stock-list entry's threshold or notes.
func UpdateStockLink(svc stock.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, sc, err := resolveScope(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		linkID, err := pathUUID(r, "linkID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateLinkPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.UpdateLink(r.Context(), actor, sc, linkID, stock.UpdateLinkInput{
			ReorderThreshold: payload.ReorderThreshold,
			ClearThreshold:   payload.ClearThreshold,
			Notes:            payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, link)
	}
}

// UnlinkMedication removes a medication from an office's stock list.
func UnlinkMedication(svc stock.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, sc, err := resolveScope(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		linkID, err := pathUUID(r, "linkID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.UnlinkMedication(r.Context(), actor, sc, linkID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unlinked"})
	}
}

// CreateLot records a new physical batch under a stock-list entry.
func CreateLot(svc stock.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, sc, err := resolveScope(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		linkID, err := pathUUID(r, "linkID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createLotPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expDate, err := parseDate(payload.ExpDate, "exp_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := stock.CreateLotInput{
			OfficeMedicationID: linkID,
			LotNumber:          payload.LotNumber,
			Qty:                payload.Qty,
			ExpDate:            expDate,
		}
		if payload.ReceivedDate != "" {
			received, err := parseDate(payload.ReceivedDate, "received_date")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.ReceivedDate = &received
		}

		lot, err := svc.CreateLot(r.Context(), actor, sc, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lot)
	}
}

// ListLots returns the active lots under a stock-list entry.
func ListLots(svc stock.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sc, err := resolveScope(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		linkID, err := pathUUID(r, "linkID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListLots(r.Context(), sc, linkID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// UpdateLot edits a lot's fields, including status transitions.
func UpdateLot(svc stock.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, sc, err := resolveScope(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lotID, err := pathUUID(r, "lotID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateLotPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := stock.UpdateLotInput{
			LotNumber: payload.LotNumber,
			Qty:       payload.Qty,
		}
		if payload.ExpDate != nil {
			expDate, err := parseDate(*payload.ExpDate, "exp_date")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.ExpDate = &expDate
		}
		if payload.Status != nil {
			status := enums.LotStatus(*payload.Status)
			input.Status = &status
		}

		lot, err := svc.UpdateLot(r.Context(), actor, sc, lotID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lot)
	}
}

// DeactivateLot soft-deletes a lot.
func DeactivateLot(svc stock.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, sc, err := resolveScope(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lotID, err := pathUUID(r, "lotID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateLot(r.Context(), actor, sc, lotID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// MarkLotAudited stamps the lot with the time of its last physical count.
func MarkLotAudited(svc stock.Service, scopes scope.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, sc, err := resolveScope(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lotID, err := pathUUID(r, "lotID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lot, err := svc.MarkLotAudited(r.Context(), actor, sc, lotID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lot)
	}
}
