package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
)

// Lot is a physical batch of a medication at an office. ExpDate and
// ReceivedDate are calendar dates; comparisons happen at day granularity.
// A lot that ages past its expiration date is never mutated, queries
// reclassify it.
type Lot struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OfficeMedicationID uuid.UUID       `gorm:"column:office_medication_id;type:uuid;not null;index"`
	LotNumber          string          `gorm:"column:lot_number;not null;default:''"`
	Qty                int             `gorm:"column:qty;not null"`
	ExpDate            time.Time       `gorm:"column:exp_date;type:date;not null;index"`
	ReceivedDate       *time.Time      `gorm:"column:received_date;type:date"`
	Status             enums.LotStatus `gorm:"column:status;type:lot_status;not null;default:'active'"`
	LastAuditedAt      *time.Time      `gorm:"column:last_audited_at"`
	IsActive           bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
