package medications

import (
	"context"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, med *models.Medication) error {
	return r.db.WithContext(ctx).Create(med).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Medication, error) {
	var med models.Medication
	if err := r.db.WithContext(ctx).First(&med, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &med, nil
}

// ListActive returns the catalog ordered by generic name. An optional search
// term matches generic name or NDC.
func (r *Repository) ListActive(ctx context.Context, search string) ([]models.Medication, error) {
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("generic_name")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("generic_name LIKE ? OR ndc LIKE ?", like, like)
	}
	var rows []models.Medication
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, med *models.Medication) error {
	return r.db.WithContext(ctx).Save(med).Error
}

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Medication{}).
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
