package scope

import (
	"context"
	"errors"
	"fmt"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type membershipsRepository interface {
	ActiveOfficeIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Service resolves the office visibility of an actor. Every scoped read in
// the system goes through here; office filters are never accepted from the
// client without being checked against the resolved scope.
type Service interface {
	ResolveOfficeScope(ctx context.Context, userID uuid.UUID) (Scope, error)
	AuthorizeOffice(ctx context.Context, userID, officeID uuid.UUID) (Scope, error)
}

type service struct {
	users       usersRepository
	memberships membershipsRepository
}

// NewService builds a scope resolver over the users and memberships repos.
func NewService(users usersRepository, memberships membershipsRepository) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if memberships == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	return &service{users: users, memberships: memberships}, nil
}

// ResolveOfficeScope derives the actor's visibility from role and
// memberships. Admins are unrestricted. Staff see the offices where both
// the membership and the office are active; a staff user with no live
// membership gets an empty scope, not an error.
func (s *service) ResolveOfficeScope(ctx context.Context, userID uuid.UUID) (Scope, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Scope{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user")
		}
		return Scope{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return Scope{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is deactivated")
	}

	if user.Role == enums.UserRoleAdmin {
		return Unrestricted(), nil
	}

	ids, err := s.memberships.ActiveOfficeIDsForUser(ctx, userID)
	if err != nil {
		return Scope{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load memberships")
	}
	return ForOffices(ids), nil
}

// AuthorizeOffice resolves the actor's scope and verifies it covers the
// requested office. Denials surface as not-found so staff cannot confirm
// which offices exist.
func (s *service) AuthorizeOffice(ctx context.Context, userID, officeID uuid.UUID) (Scope, error) {
	resolved, err := s.ResolveOfficeScope(ctx, userID)
	if err != nil {
		return Scope{}, err
	}
	if !resolved.Allows(officeID) {
		return Scope{}, pkgerrors.New(pkgerrors.CodeNotFound, "office not found")
	}
	return resolved.Narrow(officeID), nil
}
