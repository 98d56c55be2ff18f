package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/BrentRieck/Pharm-Tracking/pkg/db/types"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
)

// AuditLog is an immutable append-only record of a mutating operation.
// Rows are only ever inserted.
type AuditLog struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID    *uuid.UUID        `gorm:"column:actor_id;type:uuid"`
	Action     enums.AuditAction `gorm:"column:action;type:audit_action;not null"`
	EntityType string            `gorm:"column:entity_type;not null"`
	EntityID   string            `gorm:"column:entity_id;not null"`
	Snapshot   dbtypes.Snapshot  `gorm:"column:snapshot;type:jsonb"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
