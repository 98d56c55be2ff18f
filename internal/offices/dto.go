package offices

import (
	"time"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
)

// OfficeDTO is the transport shape for a clinic location.
type OfficeDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateOfficeInput captures the fields accepted when opening an office.
type CreateOfficeInput struct {
	Name    string
	Address string
	Notes   string
}

// UpdateOfficeInput captures the mutable office fields. Nil means unchanged.
type UpdateOfficeInput struct {
	Name    *string
	Address *string
	Notes   *string
}

func FromModel(o *models.Office) *OfficeDTO {
	if o == nil {
		return nil
	}
	return &OfficeDTO{
		ID:        o.ID,
		Name:      o.Name,
		Address:   o.Address,
		Notes:     o.Notes,
		IsActive:  o.IsActive,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func fromModels(rows []models.Office) []OfficeDTO {
	out := make([]OfficeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
