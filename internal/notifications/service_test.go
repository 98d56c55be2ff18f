package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/BrentRieck/Pharm-Tracking/pkg/pagination"
)

type stubNotificationStore struct {
	rows      []models.Notification
	createErr error

	listParams *listParams
	listRows   []models.Notification
	listNext   *pagination.Cursor

	marked     []uuid.UUID
	markExists bool
}

func (s *stubNotificationStore) CreateBatch(_ context.Context, rows []models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.rows = append(s.rows, rows...)
	return nil
}

func (s *stubNotificationStore) List(_ context.Context, params listParams) ([]models.Notification, *pagination.Cursor, error) {
	s.listParams = &params
	return s.listRows, s.listNext, nil
}

func (s *stubNotificationStore) UnreadCount(_ context.Context, _ uuid.UUID) (int64, error) {
	var count int64
	for _, row := range s.rows {
		if row.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (s *stubNotificationStore) MarkRead(_ context.Context, _, id uuid.UUID, _ time.Time) (markResult, error) {
	if !s.markExists {
		return markResult{}, nil
	}
	s.marked = append(s.marked, id)
	return markResult{Updated: true, Found: true}, nil
}

func (s *stubNotificationStore) MarkAllRead(_ context.Context, _ uuid.UUID, _ time.Time) (int64, error) {
	var count int64
	for i := range s.rows {
		if s.rows[i].ReadAt == nil {
			now := time.Now()
			s.rows[i].ReadAt = &now
			count++
		}
	}
	return count, nil
}

func TestDeliverWritesBatch(t *testing.T) {
	store := &stubNotificationStore{}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	officeID := uuid.New()
	written, err := svc.Deliver(context.Background(), []NewNotification{
		{UserID: uuid.New(), OfficeID: &officeID, Type: enums.NotificationTypeExpiryDigest, Title: "  3 lots expiring soon ", Message: "see report"},
		{UserID: uuid.New(), Type: enums.NotificationTypeLowStock, Title: "amoxicillin below threshold"},
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if written != 2 || len(store.rows) != 2 {
		t.Fatalf("expected 2 rows written, got %d (%d stored)", written, len(store.rows))
	}
	if store.rows[0].Title != "3 lots expiring soon" {
		t.Fatalf("expected trimmed title, got %q", store.rows[0].Title)
	}
	if store.rows[0].ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
}

func TestDeliverRejectsInvalidEntries(t *testing.T) {
	store := &stubNotificationStore{}
	svc, _ := NewService(store)

	cases := []NewNotification{
		{UserID: uuid.Nil, Type: enums.NotificationTypeLowStock, Title: "x"},
		{UserID: uuid.New(), Type: enums.NotificationType("bogus"), Title: "x"},
		{UserID: uuid.New(), Type: enums.NotificationTypeLowStock, Title: "   "},
	}
	for i, item := range cases {
		_, err := svc.Deliver(context.Background(), []NewNotification{item})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if len(store.rows) != 0 {
		t.Fatalf("expected nothing written, got %d rows", len(store.rows))
	}
}

func TestDeliverEmptyBatchIsNoop(t *testing.T) {
	store := &stubNotificationStore{createErr: errors.New("should not be called")}
	svc, _ := NewService(store)

	written, err := svc.Deliver(context.Background(), nil)
	if err != nil || written != 0 {
		t.Fatalf("expected silent no-op, got written=%d err=%v", written, err)
	}
}

func TestListPassesCursorAndEncodesNext(t *testing.T) {
	userID := uuid.New()
	nextID := uuid.New()
	createdAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &stubNotificationStore{
		listRows: []models.Notification{{ID: uuid.New(), UserID: userID, Type: enums.NotificationTypeLowStock, Title: "t", CreatedAt: createdAt}},
		listNext: &pagination.Cursor{CreatedAt: createdAt, ID: nextID},
	}
	svc, _ := NewService(store)

	in := pagination.EncodeCursor(pagination.Cursor{CreatedAt: createdAt.Add(time.Hour), ID: uuid.New()})
	result, err := svc.List(context.Background(), ListParams{UserID: userID, Limit: 10, Cursor: in, UnreadOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if store.listParams == nil || store.listParams.Cursor == nil {
		t.Fatal("expected parsed cursor forwarded to repo")
	}
	if !store.listParams.UnreadOnly {
		t.Fatal("expected unread filter forwarded")
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}

	decoded, err := pagination.ParseCursor(result.Cursor)
	if err != nil || decoded == nil || decoded.ID != nextID {
		t.Fatalf("expected roundtrippable next cursor, got %q err %v", result.Cursor, err)
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	svc, _ := NewService(&stubNotificationStore{})

	_, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), Cursor: "not-base64!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkReadUnknownNotificationIsNotFound(t *testing.T) {
	svc, _ := NewService(&stubNotificationStore{markExists: false})

	err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkAllReadReturnsCount(t *testing.T) {
	store := &stubNotificationStore{rows: []models.Notification{
		{ID: uuid.New()},
		{ID: uuid.New()},
	}}
	svc, _ := NewService(store)

	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 marked, got %d", count)
	}
}
