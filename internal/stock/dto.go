package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
)

// OfficeMedicationDTO is the transport shape for one stock-list entry.
type OfficeMedicationDTO struct {
	ID               uuid.UUID `json:"id"`
	OfficeID         uuid.UUID `json:"office_id"`
	MedicationID     uuid.UUID `json:"medication_id"`
	GenericName      string    `json:"generic_name,omitempty"`
	ReorderThreshold *int      `json:"reorder_threshold,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// LotDTO is the transport shape for a lot.
type LotDTO struct {
	ID                 uuid.UUID       `json:"id"`
	OfficeMedicationID uuid.UUID       `json:"office_medication_id"`
	LotNumber          string          `json:"lot_number,omitempty"`
	Qty                int             `json:"qty"`
	ExpDate            string          `json:"exp_date"`
	ReceivedDate       *string         `json:"received_date,omitempty"`
	Status             enums.LotStatus `json:"status"`
	LastAuditedAt      *time.Time      `json:"last_audited_at,omitempty"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// LinkMedicationInput binds a medication to an office's stock list.
type LinkMedicationInput struct {
	OfficeID         uuid.UUID
	MedicationID     uuid.UUID
	ReorderThreshold *int
	Notes            string
}

// UpdateLinkInput captures the mutable stock-list fields.
type UpdateLinkInput struct {
	ReorderThreshold *int
	ClearThreshold   bool
	Notes            *string
}

// CreateLotInput captures a new physical batch.
type CreateLotInput struct {
	OfficeMedicationID uuid.UUID
	LotNumber          string
	Qty                int
	ExpDate            time.Time
	ReceivedDate       *time.Time
}

// UpdateLotInput captures the mutable lot fields. Nil means unchanged.
type UpdateLotInput struct {
	LotNumber *string
	Qty       *int
	ExpDate   *time.Time
	Status    *enums.LotStatus
}

// LowStockRow is a stock-list entry whose usable quantity has fallen to or
// below its reorder threshold.
type LowStockRow struct {
	OfficeMedicationID uuid.UUID `json:"office_medication_id"`
	OfficeID           uuid.UUID `json:"office_id"`
	OfficeName         string    `json:"office_name"`
	MedicationID       uuid.UUID `json:"medication_id"`
	GenericName        string    `json:"generic_name"`
	ReorderThreshold   int       `json:"reorder_threshold"`
	OnHand             int       `json:"on_hand"`
}

const dateLayout = "2006-01-02"

func lotFromModel(l *models.Lot) *LotDTO {
	if l == nil {
		return nil
	}
	dto := &LotDTO{
		ID:                 l.ID,
		OfficeMedicationID: l.OfficeMedicationID,
		LotNumber:          l.LotNumber,
		Qty:                l.Qty,
		ExpDate:            l.ExpDate.Format(dateLayout),
		Status:             l.Status,
		LastAuditedAt:      l.LastAuditedAt,
		IsActive:           l.IsActive,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
	if l.ReceivedDate != nil {
		received := l.ReceivedDate.Format(dateLayout)
		dto.ReceivedDate = &received
	}
	return dto
}

func linkFromModel(m *models.OfficeMedication) *OfficeMedicationDTO {
	if m == nil {
		return nil
	}
	return &OfficeMedicationDTO{
		ID:               m.ID,
		OfficeID:         m.OfficeID,
		MedicationID:     m.MedicationID,
		ReorderThreshold: m.ReorderThreshold,
		Notes:            m.Notes,
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
	}
}
