package stock

import (
	"context"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists office-medication links and lots.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateLink(ctx context.Context, link *models.OfficeMedication) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *Repository) FindLinkByID(ctx context.Context, id uuid.UUID) (*models.OfficeMedication, error) {
	var link models.OfficeMedication
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListLinksForOffice returns the office's active stock list ordered by the
// medication's generic name.
func (r *Repository) ListLinksForOffice(ctx context.Context, officeID uuid.UUID) ([]OfficeMedicationDTO, error) {
	var rows []OfficeMedicationDTO
	err := r.db.WithContext(ctx).
		Model(&models.OfficeMedication{}).
		Select("office_medications.id, office_medications.office_id, office_medications.medication_id, office_medications.reorder_threshold, office_medications.notes, office_medications.is_active, office_medications.created_at, medications.generic_name").
		Joins("JOIN medications ON medications.id = office_medications.medication_id").
		Where("office_medications.office_id = ?", officeID).
		Where("office_medications.is_active = ?", true).
		Where("medications.is_active = ?", true).
		Order("medications.generic_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateLink(ctx context.Context, link *models.OfficeMedication) error {
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *Repository) SetLinkActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.OfficeMedication{}).
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

func (r *Repository) CreateLot(ctx context.Context, lot *models.Lot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

func (r *Repository) FindLotByID(ctx context.Context, id uuid.UUID) (*models.Lot, error) {
	var lot models.Lot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// ListLotsForLink returns every active lot under a stock entry, soonest
// expiration first.
func (r *Repository) ListLotsForLink(ctx context.Context, officeMedicationID uuid.UUID) ([]models.Lot, error) {
	var rows []models.Lot
	err := r.db.WithContext(ctx).
		Where("office_medication_id = ?", officeMedicationID).
		Where("is_active = ?", true).
		Order("exp_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateLot(ctx context.Context, lot *models.Lot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

func (r *Repository) SetLotActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Lot{}).
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

// ListLowStock returns stock-list entries whose on-hand quantity, counting
// only usable lots, is at or below their reorder threshold. Entries without
// a threshold never qualify.
func (r *Repository) ListLowStock(ctx context.Context) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).
		Model(&models.OfficeMedication{}).
		Select("office_medications.id AS office_medication_id, offices.id AS office_id, offices.name AS office_name, "+
			"medications.id AS medication_id, medications.generic_name, "+
			"office_medications.reorder_threshold, COALESCE(SUM(lots.qty), 0) AS on_hand").
		Joins("JOIN offices ON offices.id = office_medications.office_id").
		Joins("JOIN medications ON medications.id = office_medications.medication_id").
		Joins("LEFT JOIN lots ON lots.office_medication_id = office_medications.id AND lots.is_active = ? AND lots.status = ?",
			true, enums.LotStatusActive).
		Where("office_medications.is_active = ?", true).
		Where("offices.is_active = ?", true).
		Where("office_medications.reorder_threshold IS NOT NULL").
		Group("office_medications.id, offices.id, offices.name, medications.id, medications.generic_name, office_medications.reorder_threshold").
		Having("COALESCE(SUM(lots.qty), 0) <= office_medications.reorder_threshold").
		Order("offices.name, medications.generic_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
