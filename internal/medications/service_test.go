package medications

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/BrentRieck/Pharm-Tracking/internal/audit"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubMedicationRepo struct {
	meds map[uuid.UUID]*models.Medication
}

func newStubMedicationRepo() *stubMedicationRepo {
	return &stubMedicationRepo{meds: map[uuid.UUID]*models.Medication{}}
}

func (s *stubMedicationRepo) Create(_ context.Context, med *models.Medication) error {
	if med.ID == uuid.Nil {
		med.ID = uuid.New()
	}
	s.meds[med.ID] = med
	return nil
}

func (s *stubMedicationRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Medication, error) {
	if m, ok := s.meds[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMedicationRepo) ListActive(_ context.Context, search string) ([]models.Medication, error) {
	var out []models.Medication
	for _, m := range s.meds {
		if !m.IsActive {
			continue
		}
		if search != "" && !strings.Contains(m.GenericName, search) && !strings.Contains(m.NDC, search) {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GenericName < out[j].GenericName })
	return out, nil
}

func (s *stubMedicationRepo) Update(_ context.Context, med *models.Medication) error {
	s.meds[med.ID] = med
	return nil
}

func (s *stubMedicationRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	m, ok := s.meds[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.IsActive = active
	return nil
}

type captureRecorder struct {
	entries []audit.Entry
}

func (c *captureRecorder) Record(_ context.Context, entry audit.Entry) {
	c.entries = append(c.entries, entry)
}

func newTestService(t *testing.T, repo *stubMedicationRepo, rec *captureRecorder) Service {
	t.Helper()
	svc, err := NewService(repo, rec)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedMedication(repo *stubMedicationRepo, name, ndc string) *models.Medication {
	med := &models.Medication{
		ID:          uuid.New(),
		GenericName: name,
		NDC:         ndc,
		IsActive:    true,
	}
	repo.meds[med.ID] = med
	return med
}

func TestCreateMedicationTrimsAndRecordsAudit(t *testing.T) {
	repo := newStubMedicationRepo()
	rec := &captureRecorder{}
	svc := newTestService(t, repo, rec)
	actor := uuid.New()

	dto, err := svc.Create(context.Background(), actor, CreateMedicationInput{
		GenericName: "  amoxicillin  ",
		NDC:         " 0001-0002 ",
		Strength:    "500mg",
		Form:        "capsule",
		DefaultUnit: "capsule",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.GenericName != "amoxicillin" || dto.NDC != "0001-0002" {
		t.Fatalf("expected trimmed fields, got %+v", dto)
	}
	if !dto.IsActive {
		t.Fatal("new medication should be active")
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != enums.AuditActionCreate || rec.entries[0].EntityType != "medication" {
		t.Fatalf("expected create audit entry, got %+v", rec.entries)
	}
	if rec.entries[0].ActorID == nil || *rec.entries[0].ActorID != actor {
		t.Fatal("expected actor on audit entry")
	}
}

func TestCreateMedicationRequiresGenericName(t *testing.T) {
	svc := newTestService(t, newStubMedicationRepo(), &captureRecorder{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateMedicationInput{GenericName: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListMedicationsFiltersBySearch(t *testing.T) {
	repo := newStubMedicationRepo()
	seedMedication(repo, "amoxicillin", "0001-0002")
	seedMedication(repo, "ibuprofen", "0003-0004")
	inactive := seedMedication(repo, "aspirin", "0005-0006")
	inactive.IsActive = false
	svc := newTestService(t, repo, &captureRecorder{})

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 active medications, got %d", len(all))
	}
	if all[0].GenericName != "amoxicillin" || all[1].GenericName != "ibuprofen" {
		t.Fatalf("expected name ordering, got %+v", all)
	}

	matched, err := svc.List(context.Background(), " ibu ")
	if err != nil {
		t.Fatalf("list with search: %v", err)
	}
	if len(matched) != 1 || matched[0].GenericName != "ibuprofen" {
		t.Fatalf("expected search match, got %+v", matched)
	}
}

func TestGetMedicationNotFound(t *testing.T) {
	svc := newTestService(t, newStubMedicationRepo(), &captureRecorder{})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateMedicationPartialFields(t *testing.T) {
	repo := newStubMedicationRepo()
	med := seedMedication(repo, "amoxicillin", "0001-0002")
	rec := &captureRecorder{}
	svc := newTestService(t, repo, rec)

	strength := " 250mg "
	dto, err := svc.Update(context.Background(), uuid.New(), med.ID, UpdateMedicationInput{Strength: &strength})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Strength != "250mg" {
		t.Fatalf("expected trimmed strength, got %q", dto.Strength)
	}
	if dto.GenericName != "amoxicillin" {
		t.Fatalf("untouched field changed: %q", dto.GenericName)
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != enums.AuditActionUpdate {
		t.Fatalf("expected update audit entry, got %+v", rec.entries)
	}
}

func TestUpdateMedicationRejectsBlankName(t *testing.T) {
	repo := newStubMedicationRepo()
	med := seedMedication(repo, "amoxicillin", "0001-0002")
	svc := newTestService(t, repo, &captureRecorder{})

	blank := "   "
	_, err := svc.Update(context.Background(), uuid.New(), med.ID, UpdateMedicationInput{GenericName: &blank})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeactivateMedicationHidesFromList(t *testing.T) {
	repo := newStubMedicationRepo()
	med := seedMedication(repo, "amoxicillin", "0001-0002")
	rec := &captureRecorder{}
	svc := newTestService(t, repo, rec)

	if err := svc.Deactivate(context.Background(), uuid.New(), med.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	rows, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty catalog, got %+v", rows)
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != enums.AuditActionDelete {
		t.Fatalf("expected delete audit entry, got %+v", rec.entries)
	}

	err = svc.Deactivate(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}
