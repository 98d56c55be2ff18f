package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
)

// OfficeMembership grants a user visibility into one office. Unique per
// (user, office). RoleOverride is stored for future per-office demotion but
// is not consulted by scope resolution today.
type OfficeMembership struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_memberships_user_office"`
	OfficeID     uuid.UUID       `gorm:"column:office_id;type:uuid;not null;uniqueIndex:idx_memberships_user_office"`
	RoleOverride *enums.UserRole `gorm:"column:role_override;type:user_role"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table to the shared memberships relation.
func (OfficeMembership) TableName() string {
	return "office_memberships"
}
