package offices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BrentRieck/Pharm-Tracking/internal/audit"
	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type officeRepository interface {
	Create(ctx context.Context, office *models.Office) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Office, error)
	ListActive(ctx context.Context) ([]models.Office, error)
	ListActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Office, error)
	Update(ctx context.Context, office *models.Office) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// Service exposes office operations.
type Service interface {
	ListVisible(ctx context.Context, sc scope.Scope) ([]OfficeDTO, error)
	Get(ctx context.Context, sc scope.Scope, id uuid.UUID) (*OfficeDTO, error)
	Create(ctx context.Context, actorID uuid.UUID, input CreateOfficeInput) (*OfficeDTO, error)
	Update(ctx context.Context, actorID, id uuid.UUID, input UpdateOfficeInput) (*OfficeDTO, error)
	Deactivate(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	repo  officeRepository
	audit audit.Recorder
}

// NewService builds an office service with the provided repository.
func NewService(repo officeRepository, recorder audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("office repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

// ListVisible returns the active offices inside the actor's scope, by name.
func (s *service) ListVisible(ctx context.Context, sc scope.Scope) ([]OfficeDTO, error) {
	if sc.IsUnrestricted() {
		rows, err := s.repo.ListActive(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offices")
		}
		return fromModels(rows), nil
	}
	if sc.IsEmpty() {
		return []OfficeDTO{}, nil
	}
	rows, err := s.repo.ListActiveByIDs(ctx, sc.OfficeIDs())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offices")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, sc scope.Scope, id uuid.UUID) (*OfficeDTO, error) {
	if !sc.Allows(id) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "office not found")
	}
	office, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "office not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load office")
	}
	if !office.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "office not found")
	}
	return FromModel(office), nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateOfficeInput) (*OfficeDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "office name is required")
	}

	office := &models.Office{
		Name:     name,
		Address:  strings.TrimSpace(input.Address),
		Notes:    strings.TrimSpace(input.Notes),
		IsActive: true,
	}
	if err := s.repo.Create(ctx, office); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create office")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionCreate,
		EntityType: "office",
		EntityID:   office.ID.String(),
		Snapshot:   snapshot(office),
	})
	return FromModel(office), nil
}

func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, input UpdateOfficeInput) (*OfficeDTO, error) {
	office, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "office not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load office")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "office name cannot be blank")
		}
		office.Name = name
	}
	if input.Address != nil {
		office.Address = strings.TrimSpace(*input.Address)
	}
	if input.Notes != nil {
		office.Notes = strings.TrimSpace(*input.Notes)
	}

	if err := s.repo.Update(ctx, office); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update office")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionUpdate,
		EntityType: "office",
		EntityID:   office.ID.String(),
		Snapshot:   snapshot(office),
	})
	return FromModel(office), nil
}

// Deactivate soft-deletes the office. Lots under it stop appearing in every
// scoped query without any row being touched.
func (s *service) Deactivate(ctx context.Context, actorID, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "office not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate office")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionDelete,
		EntityType: "office",
		EntityID:   id.String(),
	})
	return nil
}

func snapshot(o *models.Office) map[string]any {
	return map[string]any{
		"name":      o.Name,
		"address":   o.Address,
		"notes":     o.Notes,
		"is_active": o.IsActive,
	}
}
