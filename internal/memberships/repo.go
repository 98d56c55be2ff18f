package memberships

import (
	"context"
	"fmt"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListUserOffices returns the active offices a user can see along with
// membership metadata. Rows vanish when either side is deactivated.
func (r *Repository) ListUserOffices(ctx context.Context, userID uuid.UUID) ([]MembershipWithOffice, error) {
	var rows []membershipWithOfficeRow

	err := r.db.WithContext(ctx).
		Model(&models.OfficeMembership{}).
		Select("office_memberships.*, offices.name AS office_name").
		Joins("JOIN offices ON offices.id = office_memberships.office_id").
		Where("office_memberships.user_id = ?", userID).
		Where("office_memberships.is_active = ?", true).
		Where("offices.is_active = ?", true).
		Order("offices.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return membershipRowsToDTO(rows), nil
}

// ActiveOfficeIDsForUser returns just the office IDs visible to the user.
func (r *Repository) ActiveOfficeIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.OfficeMembership{}).
		Joins("JOIN offices ON offices.id = office_memberships.office_id").
		Where("office_memberships.user_id = ?", userID).
		Where("office_memberships.is_active = ?", true).
		Where("offices.is_active = ?", true).
		Order("offices.name").
		Pluck("office_memberships.office_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetMembership retrieves a membership by user and office.
func (r *Repository) GetMembership(ctx context.Context, userID, officeID uuid.UUID) (*models.OfficeMembership, error) {
	var membership models.OfficeMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND office_id = ?", userID, officeID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateMembership persists a new membership record.
func (r *Repository) CreateMembership(ctx context.Context, officeID, userID uuid.UUID, roleOverride *enums.UserRole) (*models.OfficeMembership, error) {
	if roleOverride != nil && !roleOverride.IsValid() {
		return nil, fmt.Errorf("invalid role override %q", *roleOverride)
	}

	membership := &models.OfficeMembership{
		OfficeID:     officeID,
		UserID:       userID,
		RoleOverride: roleOverride,
		IsActive:     true,
	}

	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// SetActive flips a membership's active flag without deleting history.
func (r *Repository) SetActive(ctx context.Context, userID, officeID uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.OfficeMembership{}).
		Where("user_id = ? AND office_id = ?", userID, officeID).
		UpdateColumn("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListOfficeMembers returns the active users holding an active membership
// for the office.
func (r *Repository) ListOfficeMembers(ctx context.Context, officeID uuid.UUID) ([]OfficeMemberDTO, error) {
	var rows []OfficeMemberDTO
	err := r.db.WithContext(ctx).
		Model(&models.OfficeMembership{}).
		Select("users.id AS user_id, users.email, users.name, users.role, users.is_active").
		Joins("JOIN users ON users.id = office_memberships.user_id").
		Where("office_memberships.office_id = ?", officeID).
		Where("office_memberships.is_active = ?", true).
		Where("users.is_active = ?", true).
		Order("users.email").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
