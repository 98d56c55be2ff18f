package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BrentRieck/Pharm-Tracking/internal/audit"
	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stockRepository interface {
	CreateLink(ctx context.Context, link *models.OfficeMedication) error
	FindLinkByID(ctx context.Context, id uuid.UUID) (*models.OfficeMedication, error)
	ListLinksForOffice(ctx context.Context, officeID uuid.UUID) ([]OfficeMedicationDTO, error)
	UpdateLink(ctx context.Context, link *models.OfficeMedication) error
	SetLinkActive(ctx context.Context, id uuid.UUID, active bool) error
	CreateLot(ctx context.Context, lot *models.Lot) error
	FindLotByID(ctx context.Context, id uuid.UUID) (*models.Lot, error)
	ListLotsForLink(ctx context.Context, officeMedicationID uuid.UUID) ([]models.Lot, error)
	UpdateLot(ctx context.Context, lot *models.Lot) error
	SetLotActive(ctx context.Context, id uuid.UUID, active bool) error
}

// Service manages stock lists and lot lifecycles. Expiration checks happen
// at day granularity: a lot expiring today is still acceptable on intake.
type Service interface {
	LinkMedication(ctx context.Context, actorID uuid.UUID, sc scope.Scope, input LinkMedicationInput) (*OfficeMedicationDTO, error)
	ListOfficeStock(ctx context.Context, sc scope.Scope, officeID uuid.UUID) ([]OfficeMedicationDTO, error)
	UpdateLink(ctx context.Context, actorID uuid.UUID, sc scope.Scope, linkID uuid.UUID, input UpdateLinkInput) (*OfficeMedicationDTO, error)
	UnlinkMedication(ctx context.Context, actorID uuid.UUID, sc scope.Scope, linkID uuid.UUID) error

	CreateLot(ctx context.Context, actorID uuid.UUID, sc scope.Scope, input CreateLotInput) (*LotDTO, error)
	ListLots(ctx context.Context, sc scope.Scope, linkID uuid.UUID) ([]LotDTO, error)
	UpdateLot(ctx context.Context, actorID uuid.UUID, sc scope.Scope, lotID uuid.UUID, input UpdateLotInput) (*LotDTO, error)
	DeactivateLot(ctx context.Context, actorID uuid.UUID, sc scope.Scope, lotID uuid.UUID) error
	MarkLotAudited(ctx context.Context, actorID uuid.UUID, sc scope.Scope, lotID uuid.UUID) (*LotDTO, error)
}

type service struct {
	repo  stockRepository
	audit audit.Recorder
	now   func() time.Time
}

// NewService builds the stock service.
func NewService(repo stockRepository, recorder audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder, now: time.Now}, nil
}

func (s *service) LinkMedication(ctx context.Context, actorID uuid.UUID, sc scope.Scope, input LinkMedicationInput) (*OfficeMedicationDTO, error) {
	if !sc.Allows(input.OfficeID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "office not found")
	}
	if input.ReorderThreshold != nil && *input.ReorderThreshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder_threshold cannot be negative")
	}

	link := &models.OfficeMedication{
		OfficeID:         input.OfficeID,
		MedicationID:     input.MedicationID,
		ReorderThreshold: input.ReorderThreshold,
		Notes:            strings.TrimSpace(input.Notes),
		IsActive:         true,
	}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "medication already linked to office")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link medication")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionCreate,
		EntityType: "office_medication",
		EntityID:   link.ID.String(),
		Snapshot:   linkSnapshot(link),
	})
	return linkFromModel(link), nil
}

func (s *service) ListOfficeStock(ctx context.Context, sc scope.Scope, officeID uuid.UUID) ([]OfficeMedicationDTO, error) {
	if !sc.Allows(officeID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "office not found")
	}
	rows, err := s.repo.ListLinksForOffice(ctx, officeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list office stock")
	}
	return rows, nil
}

func (s *service) UpdateLink(ctx context.Context, actorID uuid.UUID, sc scope.Scope, linkID uuid.UUID, input UpdateLinkInput) (*OfficeMedicationDTO, error) {
	link, err := s.loadLink(ctx, sc, linkID)
	if err != nil {
		return nil, err
	}

	if input.ClearThreshold {
		link.ReorderThreshold = nil
	} else if input.ReorderThreshold != nil {
		if *input.ReorderThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder_threshold cannot be negative")
		}
		link.ReorderThreshold = input.ReorderThreshold
	}
	if input.Notes != nil {
		link.Notes = strings.TrimSpace(*input.Notes)
	}

	if err := s.repo.UpdateLink(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock entry")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionUpdate,
		EntityType: "office_medication",
		EntityID:   link.ID.String(),
		Snapshot:   linkSnapshot(link),
	})
	return linkFromModel(link), nil
}

func (s *service) UnlinkMedication(ctx context.Context, actorID uuid.UUID, sc scope.Scope, linkID uuid.UUID) error {
	link, err := s.loadLink(ctx, sc, linkID)
	if err != nil {
		return err
	}
	if err := s.repo.SetLinkActive(ctx, link.ID, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink medication")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionDelete,
		EntityType: "office_medication",
		EntityID:   link.ID.String(),
	})
	return nil
}

func (s *service) CreateLot(ctx context.Context, actorID uuid.UUID, sc scope.Scope, input CreateLotInput) (*LotDTO, error) {
	link, err := s.loadLink(ctx, sc, input.OfficeMedicationID)
	if err != nil {
		return nil, err
	}

	if input.Qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty cannot be negative")
	}
	if input.ExpDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exp_date is required")
	}
	expDate := dateOnly(input.ExpDate)
	if expDate.Before(s.today()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exp_date cannot be in the past")
	}

	lot := &models.Lot{
		OfficeMedicationID: link.ID,
		LotNumber:          strings.TrimSpace(input.LotNumber),
		Qty:                input.Qty,
		ExpDate:            expDate,
		Status:             enums.LotStatusActive,
		IsActive:           true,
	}
	if input.ReceivedDate != nil {
		received := dateOnly(*input.ReceivedDate)
		lot.ReceivedDate = &received
	}

	if err := s.repo.CreateLot(ctx, lot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create lot")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionCreate,
		EntityType: "lot",
		EntityID:   lot.ID.String(),
		Snapshot:   lotSnapshot(lot),
	})
	return lotFromModel(lot), nil
}

func (s *service) ListLots(ctx context.Context, sc scope.Scope, linkID uuid.UUID) ([]LotDTO, error) {
	link, err := s.loadLink(ctx, sc, linkID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListLotsForLink(ctx, link.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lots")
	}
	out := make([]LotDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *lotFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) UpdateLot(ctx context.Context, actorID uuid.UUID, sc scope.Scope, lotID uuid.UUID, input UpdateLotInput) (*LotDTO, error) {
	lot, err := s.loadLot(ctx, sc, lotID)
	if err != nil {
		return nil, err
	}

	if input.LotNumber != nil {
		lot.LotNumber = strings.TrimSpace(*input.LotNumber)
	}
	if input.Qty != nil {
		if *input.Qty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty cannot be negative")
		}
		lot.Qty = *input.Qty
	}
	if input.ExpDate != nil {
		expDate := dateOnly(*input.ExpDate)
		if expDate.Before(s.today()) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "exp_date cannot be in the past")
		}
		lot.ExpDate = expDate
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid lot status")
		}
		lot.Status = *input.Status
	}

	if err := s.repo.UpdateLot(ctx, lot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update lot")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionUpdate,
		EntityType: "lot",
		EntityID:   lot.ID.String(),
		Snapshot:   lotSnapshot(lot),
	})
	return lotFromModel(lot), nil
}

func (s *service) DeactivateLot(ctx context.Context, actorID uuid.UUID, sc scope.Scope, lotID uuid.UUID) error {
	lot, err := s.loadLot(ctx, sc, lotID)
	if err != nil {
		return err
	}
	if err := s.repo.SetLotActive(ctx, lot.ID, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate lot")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionDelete,
		EntityType: "lot",
		EntityID:   lot.ID.String(),
		Snapshot:   lotSnapshot(lot),
	})
	return nil
}

// MarkLotAudited stamps the lot with the time of a physical count.
func (s *service) MarkLotAudited(ctx context.Context, actorID uuid.UUID, sc scope.Scope, lotID uuid.UUID) (*LotDTO, error) {
	lot, err := s.loadLot(ctx, sc, lotID)
	if err != nil {
		return nil, err
	}
	at := s.now()
	lot.LastAuditedAt = &at
	if err := s.repo.UpdateLot(ctx, lot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark lot audited")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionUpdate,
		EntityType: "lot",
		EntityID:   lot.ID.String(),
		Snapshot:   lotSnapshot(lot),
	})
	return lotFromModel(lot), nil
}

func (s *service) loadLink(ctx context.Context, sc scope.Scope, linkID uuid.UUID) (*models.OfficeMedication, error) {
	link, err := s.repo.FindLinkByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock entry")
	}
	if !link.IsActive || !sc.Allows(link.OfficeID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock entry not found")
	}
	return link, nil
}

func (s *service) loadLot(ctx context.Context, sc scope.Scope, lotID uuid.UUID) (*models.Lot, error) {
	lot, err := s.repo.FindLotByID(ctx, lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lot")
	}
	if !lot.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lot not found")
	}
	if _, err := s.loadLink(ctx, sc, lot.OfficeMedicationID); err != nil {
		return nil, err
	}
	return lot, nil
}

func (s *service) today() time.Time {
	return dateOnly(s.now())
}

// dateOnly keeps the time's own location so the calendar date matches the
// clock it came from.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func linkSnapshot(m *models.OfficeMedication) map[string]any {
	snap := map[string]any{
		"office_id":     m.OfficeID.String(),
		"medication_id": m.MedicationID.String(),
		"notes":         m.Notes,
		"is_active":     m.IsActive,
	}
	if m.ReorderThreshold != nil {
		snap["reorder_threshold"] = *m.ReorderThreshold
	}
	return snap
}

func lotSnapshot(l *models.Lot) map[string]any {
	snap := map[string]any{
		"office_medication_id": l.OfficeMedicationID.String(),
		"lot_number":           l.LotNumber,
		"qty":                  l.Qty,
		"exp_date":             l.ExpDate.Format(dateLayout),
		"status":               string(l.Status),
		"is_active":            l.IsActive,
	}
	if l.ReceivedDate != nil {
		snap["received_date"] = l.ReceivedDate.Format(dateLayout)
	}
	return snap
}
