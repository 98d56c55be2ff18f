package medications

import (
	"time"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
)

type MedicationDTO struct {
	ID          uuid.UUID `json:"id"`
	GenericName string    `json:"generic_name"`
	NDC         string    `json:"ndc,omitempty"`
	Strength    string    `json:"strength,omitempty"`
	Form        string    `json:"form,omitempty"`
	DefaultUnit string    `json:"default_unit,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateMedicationInput struct {
	GenericName string
	NDC         string
	Strength    string
	Form        string
	DefaultUnit string
}

type UpdateMedicationInput struct {
	GenericName *string
	NDC         *string
	Strength    *string
	Form        *string
	DefaultUnit *string
}

func FromModel(m *models.Medication) *MedicationDTO {
	if m == nil {
		return nil
	}
	return &MedicationDTO{
		ID:          m.ID,
		GenericName: m.GenericName,
		NDC:         m.NDC,
		Strength:    m.Strength,
		Form:        m.Form,
		DefaultUnit: m.DefaultUnit,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
