package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
)

// MembershipWithOffice carries membership metadata together with the office
// it grants access to.
type MembershipWithOffice struct {
	MembershipID uuid.UUID       `json:"membership_id"`
	OfficeID     uuid.UUID       `json:"office_id"`
	OfficeName   string          `json:"office_name"`
	RoleOverride *enums.UserRole `json:"role_override,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OfficeMemberDTO describes a user who can see an office's inventory.
type OfficeMemberDTO struct {
	UserID   uuid.UUID      `json:"user_id"`
	Email    string         `json:"email"`
	Name     string         `json:"name"`
	Role     enums.UserRole `json:"role"`
	IsActive bool           `json:"is_active"`
}

type membershipWithOfficeRow struct {
	ID           uuid.UUID
	OfficeID     uuid.UUID
	OfficeName   string
	RoleOverride *enums.UserRole
	IsActive     bool
	CreatedAt    time.Time
}

func membershipRowsToDTO(rows []membershipWithOfficeRow) []MembershipWithOffice {
	out := make([]MembershipWithOffice, 0, len(rows))
	for _, row := range rows {
		out = append(out, MembershipWithOffice{
			MembershipID: row.ID,
			OfficeID:     row.OfficeID,
			OfficeName:   row.OfficeName,
			RoleOverride: row.RoleOverride,
			IsActive:     row.IsActive,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out
}
