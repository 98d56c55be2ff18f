package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	dbtypes "github.com/BrentRieck/Pharm-Tracking/pkg/db/types"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
	"gorm.io/gorm"
)

// Entry captures one mutating operation for the append-only trail.
type Entry struct {
	ActorID    *uuid.UUID
	Action     enums.AuditAction
	EntityType string
	EntityID   string
	Snapshot   map[string]any
}

// Recorder persists audit entries. Recording is best effort: a failed write
// is logged and swallowed so it never rolls back the operation it describes.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// Repository inserts audit rows. There are no update or delete paths.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends a single audit row.
func (r *Repository) Insert(ctx context.Context, entry Entry) (*models.AuditLog, error) {
	row := &models.AuditLog{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Snapshot:   dbtypes.Snapshot(entry.Snapshot),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListForEntity returns the trail for one entity, newest first.
func (r *Repository) ListForEntity(ctx context.Context, entityType, entityID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type auditInserter interface {
	Insert(ctx context.Context, entry Entry) (*models.AuditLog, error)
}

type recorder struct {
	repo auditInserter
	logg *logger.Logger
}

// NewRecorder wraps the repository in the best-effort Recorder used by
// domain services.
func NewRecorder(repo auditInserter, logg *logger.Logger) Recorder {
	return &recorder{repo: repo, logg: logg}
}

func (r *recorder) Record(ctx context.Context, entry Entry) {
	if r.repo == nil {
		return
	}
	if _, err := r.repo.Insert(ctx, entry); err != nil {
		if r.logg != nil {
			ctx = r.logg.WithFields(ctx, map[string]any{
				"entity_type": entry.EntityType,
				"entity_id":   entry.EntityID,
				"action":      string(entry.Action),
			})
			r.logg.Error(ctx, "audit.record_failed", err)
		}
	}
}
