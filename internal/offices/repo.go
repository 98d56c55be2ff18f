package offices

import (
	"context"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes office persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new office.
func (r *Repository) Create(ctx context.Context, office *models.Office) error {
	return r.db.WithContext(ctx).Create(office).Error
}

// FindByID loads an office regardless of active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Office, error) {
	var office models.Office
	if err := r.db.WithContext(ctx).First(&office, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &office, nil
}

// ListActive returns active offices ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]models.Office, error) {
	var rows []models.Office
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveByIDs returns the active offices among the given IDs, by name.
func (r *Repository) ListActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Office, error) {
	if len(ids) == 0 {
		return []models.Office{}, nil
	}
	var rows []models.Office
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("is_active = ?", true).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ActiveIDs returns the IDs of every active office.
func (r *Repository) ActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Office{}).
		Where("is_active = ?", true).
		Order("name").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Update persists the office fields already mutated on the model.
func (r *Repository) Update(ctx context.Context, office *models.Office) error {
	return r.db.WithContext(ctx).Save(office).Error
}

// SetActive flips the soft-delete flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Office{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
