package scope

import (
	"context"
	"testing"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubUsersRepo struct {
	users map[uuid.UUID]*models.User
}

func (s stubUsersRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubMembershipsRepo struct {
	officeIDs map[uuid.UUID][]uuid.UUID
}

func (s stubMembershipsRepo) ActiveOfficeIDsForUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.officeIDs[userID], nil
}

func newTestService(t *testing.T, users stubUsersRepo, memberships stubMembershipsRepo) Service {
	t.Helper()
	svc, err := NewService(users, memberships)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestResolveOfficeScopeAdminUnrestricted(t *testing.T) {
	adminID := uuid.New()
	svc := newTestService(t,
		stubUsersRepo{users: map[uuid.UUID]*models.User{
			adminID: {ID: adminID, Role: enums.UserRoleAdmin, IsActive: true},
		}},
		stubMembershipsRepo{},
	)

	resolved, err := svc.ResolveOfficeScope(context.Background(), adminID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !resolved.IsUnrestricted() {
		t.Fatal("expected unrestricted scope for admin")
	}
	if !resolved.Allows(uuid.New()) {
		t.Fatal("unrestricted scope should allow any office")
	}
}

func TestResolveOfficeScopeStaffMemberships(t *testing.T) {
	staffID := uuid.New()
	officeA := uuid.New()
	officeB := uuid.New()
	svc := newTestService(t,
		stubUsersRepo{users: map[uuid.UUID]*models.User{
			staffID: {ID: staffID, Role: enums.UserRoleStaff, IsActive: true},
		}},
		stubMembershipsRepo{officeIDs: map[uuid.UUID][]uuid.UUID{
			staffID: {officeA, officeB},
		}},
	)

	resolved, err := svc.ResolveOfficeScope(context.Background(), staffID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.IsUnrestricted() {
		t.Fatal("staff scope must not be unrestricted")
	}
	if got := resolved.OfficeIDs(); len(got) != 2 {
		t.Fatalf("expected 2 offices, got %d", len(got))
	}
	if !resolved.Allows(officeA) || !resolved.Allows(officeB) {
		t.Fatal("scope should allow member offices")
	}
	if resolved.Allows(uuid.New()) {
		t.Fatal("scope must not allow unrelated office")
	}
}

func TestResolveOfficeScopeStaffWithoutMembershipsIsEmpty(t *testing.T) {
	staffID := uuid.New()
	svc := newTestService(t,
		stubUsersRepo{users: map[uuid.UUID]*models.User{
			staffID: {ID: staffID, Role: enums.UserRoleStaff, IsActive: true},
		}},
		stubMembershipsRepo{},
	)

	resolved, err := svc.ResolveOfficeScope(context.Background(), staffID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !resolved.IsEmpty() {
		t.Fatal("expected empty scope, not an error")
	}
}

func TestResolveOfficeScopeRejectsInactiveUser(t *testing.T) {
	userID := uuid.New()
	svc := newTestService(t,
		stubUsersRepo{users: map[uuid.UUID]*models.User{
			userID: {ID: userID, Role: enums.UserRoleAdmin, IsActive: false},
		}},
		stubMembershipsRepo{},
	)

	_, err := svc.ResolveOfficeScope(context.Background(), userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestResolveOfficeScopeUnknownUser(t *testing.T) {
	svc := newTestService(t, stubUsersRepo{}, stubMembershipsRepo{})

	_, err := svc.ResolveOfficeScope(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthorizeOfficeDeniesAsNotFound(t *testing.T) {
	staffID := uuid.New()
	officeA := uuid.New()
	svc := newTestService(t,
		stubUsersRepo{users: map[uuid.UUID]*models.User{
			staffID: {ID: staffID, Role: enums.UserRoleStaff, IsActive: true},
		}},
		stubMembershipsRepo{officeIDs: map[uuid.UUID][]uuid.UUID{
			staffID: {officeA},
		}},
	)

	narrowed, err := svc.AuthorizeOffice(context.Background(), staffID, officeA)
	if err != nil {
		t.Fatalf("authorize member office: %v", err)
	}
	if got := narrowed.OfficeIDs(); len(got) != 1 || got[0] != officeA {
		t.Fatalf("expected scope narrowed to %s, got %v", officeA, got)
	}

	_, err = svc.AuthorizeOffice(context.Background(), staffID, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign office, got %v", err)
	}
}

func TestScopeNarrow(t *testing.T) {
	officeA := uuid.New()
	officeB := uuid.New()

	s := ForOffices([]uuid.UUID{officeA, officeB})
	narrowed := s.Narrow(officeA)
	if got := narrowed.OfficeIDs(); len(got) != 1 || got[0] != officeA {
		t.Fatalf("expected single office, got %v", got)
	}

	if !s.Narrow(uuid.Nil).Allows(officeB) {
		t.Fatal("narrowing to nil office should keep scope intact")
	}

	foreign := s.Narrow(uuid.New())
	if !foreign.IsEmpty() {
		t.Fatal("narrowing to foreign office should produce empty scope")
	}

	admin := Unrestricted().Narrow(officeA)
	if admin.IsUnrestricted() {
		t.Fatal("narrowed admin scope should be explicit")
	}
	if got := admin.OfficeIDs(); len(got) != 1 || got[0] != officeA {
		t.Fatalf("expected admin narrowed to %s, got %v", officeA, got)
	}
}
