package inventory

import (
	"context"
	"time"

	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	"gorm.io/gorm"
)

// Repository runs the scoped lot queries. All reads join lots through their
// stock entry to the office and medication, and only ever see active
// offices and active stock entries; per-lot filters differ by query.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const lotViewSelect = "lots.id AS lot_id, offices.id AS office_id, offices.name AS office_name, " +
	"medications.id AS medication_id, medications.generic_name, medications.strength, " +
	"lots.lot_number, lots.qty, lots.exp_date, lots.status"

func (r *Repository) base(ctx context.Context, sc scope.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Select(lotViewSelect).
		Joins("JOIN office_medications ON office_medications.id = lots.office_medication_id").
		Joins("JOIN offices ON offices.id = office_medications.office_id").
		Joins("JOIN medications ON medications.id = office_medications.medication_id").
		Where("offices.is_active = ?", true).
		Where("office_medications.is_active = ?", true).
		Where("lots.is_active = ?", true)

	if !sc.IsUnrestricted() {
		q = q.Where("offices.id IN ?", sc.OfficeIDs())
	}
	return q.Order("offices.name, medications.generic_name, lots.exp_date, lots.id")
}

// ActiveLots returns usable stock: lots that are neither discarded nor used
// up, regardless of expiration date.
func (r *Repository) ActiveLots(ctx context.Context, sc scope.Scope) ([]LotView, error) {
	var rows []LotView
	err := r.base(ctx, sc).
		Where("lots.status = ?", enums.LotStatusActive).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ExpiringWithin returns usable lots whose expiration falls inside the
// closed window [from, to]. A lot expiring on either bound is included.
func (r *Repository) ExpiringWithin(ctx context.Context, sc scope.Scope, from, to time.Time) ([]LotView, error) {
	var rows []LotView
	err := r.base(ctx, sc).
		Where("lots.status = ?", enums.LotStatusActive).
		Where("lots.exp_date >= ?", from).
		Where("lots.exp_date <= ?", to).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Expired returns lots dated strictly before today. Status is deliberately
// ignored here: a discarded lot with a past date still shows up, matching
// how disposal workflows reconcile the shelf.
func (r *Repository) Expired(ctx context.Context, sc scope.Scope, today time.Time) ([]LotView, error) {
	var rows []LotView
	err := r.base(ctx, sc).
		Where("lots.exp_date < ?", today).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
