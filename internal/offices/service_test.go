package offices

import (
	"context"
	"testing"

	"github.com/BrentRieck/Pharm-Tracking/internal/audit"
	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubOfficeRepo struct {
	offices map[uuid.UUID]*models.Office
}

func newStubOfficeRepo() *stubOfficeRepo {
	return &stubOfficeRepo{offices: map[uuid.UUID]*models.Office{}}
}

func (s *stubOfficeRepo) Create(_ context.Context, office *models.Office) error {
	if office.ID == uuid.Nil {
		office.ID = uuid.New()
	}
	s.offices[office.ID] = office
	return nil
}

func (s *stubOfficeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Office, error) {
	if o, ok := s.offices[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOfficeRepo) ListActive(_ context.Context) ([]models.Office, error) {
	var out []models.Office
	for _, o := range s.offices {
		if o.IsActive {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOfficeRepo) ListActiveByIDs(_ context.Context, ids []uuid.UUID) ([]models.Office, error) {
	var out []models.Office
	for _, id := range ids {
		if o, ok := s.offices[id]; ok && o.IsActive {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOfficeRepo) Update(_ context.Context, office *models.Office) error {
	s.offices[office.ID] = office
	return nil
}

func (s *stubOfficeRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	o, ok := s.offices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.IsActive = active
	return nil
}

type captureRecorder struct {
	entries []audit.Entry
}

func (c *captureRecorder) Record(_ context.Context, entry audit.Entry) {
	c.entries = append(c.entries, entry)
}

func newTestService(t *testing.T, repo *stubOfficeRepo, rec *captureRecorder) Service {
	t.Helper()
	svc, err := NewService(repo, rec)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateOfficeRecordsAudit(t *testing.T) {
	repo := newStubOfficeRepo()
	rec := &captureRecorder{}
	svc := newTestService(t, repo, rec)
	actor := uuid.New()

	dto, err := svc.Create(context.Background(), actor, CreateOfficeInput{Name: "  Downtown Clinic  ", Address: "12 Main St"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Name != "Downtown Clinic" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if !dto.IsActive {
		t.Fatal("new office should be active")
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != enums.AuditActionCreate {
		t.Fatalf("expected create audit entry, got %+v", rec.entries)
	}
}

func TestCreateOfficeRequiresName(t *testing.T) {
	svc := newTestService(t, newStubOfficeRepo(), &captureRecorder{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateOfficeInput{Name: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetOfficeOutsideScopeIsNotFound(t *testing.T) {
	repo := newStubOfficeRepo()
	office := &models.Office{ID: uuid.New(), Name: "North", IsActive: true}
	repo.offices[office.ID] = office
	svc := newTestService(t, repo, &captureRecorder{})

	_, err := svc.Get(context.Background(), scope.ForOffices(nil), office.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	dto, err := svc.Get(context.Background(), scope.Unrestricted(), office.ID)
	if err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if dto.ID != office.ID {
		t.Fatalf("unexpected office %s", dto.ID)
	}
}

func TestGetDeactivatedOfficeIsNotFound(t *testing.T) {
	repo := newStubOfficeRepo()
	office := &models.Office{ID: uuid.New(), Name: "Closed", IsActive: false}
	repo.offices[office.ID] = office
	svc := newTestService(t, repo, &captureRecorder{})

	_, err := svc.Get(context.Background(), scope.Unrestricted(), office.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive office, got %v", err)
	}
}

func TestListVisibleRespectsScope(t *testing.T) {
	repo := newStubOfficeRepo()
	officeA := &models.Office{ID: uuid.New(), Name: "A", IsActive: true}
	officeB := &models.Office{ID: uuid.New(), Name: "B", IsActive: true}
	repo.offices[officeA.ID] = officeA
	repo.offices[officeB.ID] = officeB
	svc := newTestService(t, repo, &captureRecorder{})

	all, err := svc.ListVisible(context.Background(), scope.Unrestricted())
	if err != nil {
		t.Fatalf("list unrestricted: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 offices, got %d", len(all))
	}

	some, err := svc.ListVisible(context.Background(), scope.ForOffices([]uuid.UUID{officeA.ID}))
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}
	if len(some) != 1 || some[0].ID != officeA.ID {
		t.Fatalf("expected only office A, got %+v", some)
	}

	none, err := svc.ListVisible(context.Background(), scope.ForOffices(nil))
	if err != nil {
		t.Fatalf("list empty scope: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no offices, got %d", len(none))
	}
}

func TestDeactivateRecordsAudit(t *testing.T) {
	repo := newStubOfficeRepo()
	office := &models.Office{ID: uuid.New(), Name: "South", IsActive: true}
	repo.offices[office.ID] = office
	rec := &captureRecorder{}
	svc := newTestService(t, repo, rec)

	if err := svc.Deactivate(context.Background(), uuid.New(), office.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.offices[office.ID].IsActive {
		t.Fatal("office should be inactive")
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != enums.AuditActionDelete {
		t.Fatalf("expected delete audit entry, got %+v", rec.entries)
	}
}
