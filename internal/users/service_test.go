package users

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BrentRieck/Pharm-Tracking/internal/audit"
	"github.com/BrentRieck/Pharm-Tracking/pkg/config"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/BrentRieck/Pharm-Tracking/pkg/security"
)

// small argon parameters keep hashing fast under test
var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
}

type stubUserStore struct {
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		byID:    map[uuid.UUID]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (s *stubUserStore) Create(_ context.Context, dto CreateUserDTO) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: dto.PasswordHash,
		Role:         dto.Role,
		IsActive:     true,
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserStore) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	u, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = active
	return nil
}

type captureRecorder struct {
	entries []audit.Entry
}

func (c *captureRecorder) Record(_ context.Context, entry audit.Entry) {
	c.entries = append(c.entries, entry)
}

func newTestService(t *testing.T, repo *stubUserStore, rec *captureRecorder) Service {
	t.Helper()
	svc, err := NewService(repo, rec, testPasswordConfig)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateUserHashesPasswordAndAudits(t *testing.T) {
	repo := newStubUserStore()
	rec := &captureRecorder{}
	svc := newTestService(t, repo, rec)
	actor := uuid.New()

	dto, err := svc.Create(context.Background(), actor, CreateUserInput{
		Email:    "  Nurse@Clinic.Test ",
		Name:     "  Pat Jones ",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Email != "nurse@clinic.test" {
		t.Fatalf("expected normalized email, got %q", dto.Email)
	}
	if dto.Name != "Pat Jones" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.Role != enums.UserRoleStaff {
		t.Fatalf("expected default staff role, got %q", dto.Role)
	}

	stored := repo.byEmail["nurse@clinic.test"]
	if stored.PasswordHash == "correct horse" || !strings.HasPrefix(stored.PasswordHash, "$argon2id$") {
		t.Fatalf("password stored without hashing: %q", stored.PasswordHash)
	}
	ok, err := security.VerifyPassword("correct horse", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}

	if len(rec.entries) != 1 || rec.entries[0].Action != enums.AuditActionCreate {
		t.Fatalf("expected create audit entry, got %+v", rec.entries)
	}
	if rec.entries[0].Snapshot["email"] != "nurse@clinic.test" {
		t.Fatalf("unexpected audit snapshot %+v", rec.entries[0].Snapshot)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := newTestService(t, newStubUserStore(), &captureRecorder{})
	actor := uuid.New()

	cases := []struct {
		name  string
		input CreateUserInput
	}{
		{"missing email", CreateUserInput{Password: "long enough"}},
		{"short password", CreateUserInput{Email: "a@b.test", Password: "short"}},
		{"bogus role", CreateUserInput{Email: "a@b.test", Password: "long enough", Role: enums.UserRole("owner")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), actor, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateUserDuplicateEmailIsConflict(t *testing.T) {
	repo := newStubUserStore()
	svc := newTestService(t, repo, &captureRecorder{})
	actor := uuid.New()

	input := CreateUserInput{Email: "dup@clinic.test", Password: "long enough"}
	if _, err := svc.Create(context.Background(), actor, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), actor, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSetActiveDeactivationAuditsDelete(t *testing.T) {
	repo := newStubUserStore()
	rec := &captureRecorder{}
	svc := newTestService(t, repo, rec)
	actor := uuid.New()

	dto, err := svc.Create(context.Background(), actor, CreateUserInput{Email: "x@clinic.test", Password: "long enough"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.SetActive(context.Background(), actor, dto.ID, false); err != nil {
		t.Fatalf("set active: %v", err)
	}
	if repo.byID[dto.ID].IsActive {
		t.Fatal("user still active")
	}
	last := rec.entries[len(rec.entries)-1]
	if last.Action != enums.AuditActionDelete {
		t.Fatalf("expected delete audit action, got %q", last.Action)
	}
}

func TestSetActiveUnknownUserIsNotFound(t *testing.T) {
	svc := newTestService(t, newStubUserStore(), &captureRecorder{})

	err := svc.SetActive(context.Background(), uuid.New(), uuid.New(), true)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetUnknownUserIsNotFound(t *testing.T) {
	svc := newTestService(t, newStubUserStore(), &captureRecorder{})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
