package models

import (
	"time"

	"github.com/google/uuid"
)

// Medication is an office-independent catalog entry.
type Medication struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GenericName string    `gorm:"column:generic_name;not null"`
	NDC         string    `gorm:"column:ndc;not null;default:''"`
	Strength    string    `gorm:"column:strength;not null;default:''"`
	Form        string    `gorm:"column:form;not null;default:''"`
	DefaultUnit string    `gorm:"column:default_unit;not null;default:''"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
