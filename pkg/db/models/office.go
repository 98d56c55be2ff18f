package models

import (
	"time"

	"github.com/google/uuid"
)

// Office represents a physical clinic location holding inventory. It is the
// tenant boundary: every lot belongs, through its stock entry, to exactly one
// office.
type Office struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Address   string    `gorm:"column:address;not null;default:''"`
	Notes     string    `gorm:"column:notes;not null;default:''"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
