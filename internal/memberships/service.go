package memberships

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BrentRieck/Pharm-Tracking/internal/audit"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
)

type membershipStore interface {
	ListOfficeMembers(ctx context.Context, officeID uuid.UUID) ([]OfficeMemberDTO, error)
	CreateMembership(ctx context.Context, officeID, userID uuid.UUID, roleOverride *enums.UserRole) (*models.OfficeMembership, error)
	SetActive(ctx context.Context, userID, officeID uuid.UUID, active bool) error
}

// Service manages office memberships. Admin-only; the router gates access.
type Service interface {
	ListMembers(ctx context.Context, officeID uuid.UUID) ([]OfficeMemberDTO, error)
	Add(ctx context.Context, actorID, officeID, userID uuid.UUID, roleOverride *enums.UserRole) error
	Remove(ctx context.Context, actorID, officeID, userID uuid.UUID) error
}

type service struct {
	repo  membershipStore
	audit audit.Recorder
}

func NewService(repo membershipStore, recorder audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "memberships repository required")
	}
	if recorder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) ListMembers(ctx context.Context, officeID uuid.UUID) ([]OfficeMemberDTO, error) {
	members, err := s.repo.ListOfficeMembers(ctx, officeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	return members, nil
}

func (s *service) Add(ctx context.Context, actorID, officeID, userID uuid.UUID, roleOverride *enums.UserRole) error {
	membership, err := s.repo.CreateMembership(ctx, officeID, userID, roleOverride)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_memberships_user_office") {
			return pkgerrors.New(pkgerrors.CodeConflict, "user already belongs to office")
		}
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "office or user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionCreate,
		EntityType: "office_membership",
		EntityID:   membership.ID.String(),
		Snapshot:   map[string]any{"office_id": officeID.String(), "user_id": userID.String()},
	})
	return nil
}

func (s *service) Remove(ctx context.Context, actorID, officeID, userID uuid.UUID) error {
	if err := s.repo.SetActive(ctx, userID, officeID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove membership")
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    &actorID,
		Action:     enums.AuditActionDelete,
		EntityType: "office_membership",
		EntityID:   userID.String(),
		Snapshot:   map[string]any{"office_id": officeID.String(), "user_id": userID.String()},
	})
	return nil
}
