package models

import (
	"time"

	"github.com/google/uuid"
)

// OfficeMedication binds one medication to one office's stock list. Unique
// per (office, medication); owns zero or more lots.
type OfficeMedication struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OfficeID         uuid.UUID `gorm:"column:office_id;type:uuid;not null;uniqueIndex:idx_office_medications_pair"`
	MedicationID     uuid.UUID `gorm:"column:medication_id;type:uuid;not null;uniqueIndex:idx_office_medications_pair"`
	ReorderThreshold *int      `gorm:"column:reorder_threshold"`
	Notes            string    `gorm:"column:notes;not null;default:''"`
	IsActive         bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
