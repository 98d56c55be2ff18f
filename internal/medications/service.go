package medications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BrentRieck/Pharm-Tracking/internal/audit"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicationRepository interface {
	Create(ctx context.Context, med *models.Medication) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Medication, error)
	ListActive(ctx context.Context, search string) ([]models.Medication, error)
	Update(ctx context.Context, med *models.Medication) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// Service exposes the medication catalog. The catalog is shared across
// offices, so reads are not scoped.
type Service interface {
	List(ctx context.Context, search string) ([]MedicationDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*MedicationDTO, error)
	Create(ctx context.Context, actorID uuid.UUID, input CreateMedicationInput) (*MedicationDTO, error)
	Update(ctx context.Context, actorID, id uuid.UUID, input UpdateMedicationInput) (*MedicationDTO, error)
	Deactivate(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	repo  medicationRepository
	audit audit.Recorder
}

func NewService(repo medicationRepository, recorder audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("medication repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) List(ctx context.Context, search string) ([]MedicationDTO, error) {
	rows, err := s.repo.ListActive(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list medications")
	}
	out := make([]MedicationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MedicationDTO, error) {
	med, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "medication not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medication")
	}
	return FromModel(med), nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateMedicationInput) (*MedicationDTO, error) {
	name := strings.TrimSpace(input.GenericName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "generic_name is required")
	}

	med := &models.Medication{
		GenericName: name,
		NDC:         strings.TrimSpace(input.NDC),
		Strength:    strings.TrimSpace(input.Strength),
		Form:        strings.TrimSpace(input.Form),
		DefaultUnit: strings.TrimSpace(input.DefaultUnit),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, med); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create medication")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionCreate,
		EntityType: "medication",
		EntityID:   med.ID.String(),
		Snapshot:   snapshot(med),
	})
	return FromModel(med), nil
}

func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, input UpdateMedicationInput) (*MedicationDTO, error) {
	med, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "medication not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medication")
	}

	if input.GenericName != nil {
		name := strings.TrimSpace(*input.GenericName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "generic_name cannot be blank")
		}
		med.GenericName = name
	}
	if input.NDC != nil {
		med.NDC = strings.TrimSpace(*input.NDC)
	}
	if input.Strength != nil {
		med.Strength = strings.TrimSpace(*input.Strength)
	}
	if input.Form != nil {
		med.Form = strings.TrimSpace(*input.Form)
	}
	if input.DefaultUnit != nil {
		med.DefaultUnit = strings.TrimSpace(*input.DefaultUnit)
	}

	if err := s.repo.Update(ctx, med); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update medication")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionUpdate,
		EntityType: "medication",
		EntityID:   med.ID.String(),
		Snapshot:   snapshot(med),
	})
	return FromModel(med), nil
}

func (s *service) Deactivate(ctx context.Context, actorID, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "medication not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate medication")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionDelete,
		EntityType: "medication",
		EntityID:   id.String(),
	})
	return nil
}

func snapshot(m *models.Medication) map[string]any {
	return map[string]any{
		"generic_name": m.GenericName,
		"ndc":          m.NDC,
		"strength":     m.Strength,
		"form":         m.Form,
		"default_unit": m.DefaultUnit,
		"is_active":    m.IsActive,
	}
}
