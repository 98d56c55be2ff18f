package cron

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/internal/inventory"
	"github.com/BrentRieck/Pharm-Tracking/internal/memberships"
	"github.com/BrentRieck/Pharm-Tracking/internal/notifications"
	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
)

type digestOfficesRepo interface {
	ListActive(ctx context.Context) ([]models.Office, error)
}

type digestInventoryService interface {
	NextExpiring(ctx context.Context, sc scope.Scope, horizons []int) ([]inventory.HorizonBucket, error)
}

type digestMembersRepo interface {
	ListOfficeMembers(ctx context.Context, officeID uuid.UUID) ([]memberships.OfficeMemberDTO, error)
}

type digestAdminsRepo interface {
	ListActiveAdmins(ctx context.Context) ([]models.User, error)
}

type notificationWriter interface {
	Deliver(ctx context.Context, batch []notifications.NewNotification) (int, error)
}

// ExpiryDigestJobParams configure the digest job.
type ExpiryDigestJobParams struct {
	Logger    *logger.Logger
	Offices   digestOfficesRepo
	Inventory digestInventoryService
	Members   digestMembersRepo
	Admins    digestAdminsRepo
	Notifier  notificationWriter
	Horizons  []int
}

// NewExpiryDigestJob builds the job that writes one expiration digest per
// office member, plus every active admin, whenever the office has lots
// expiring inside the widest horizon. Offices with nothing expiring produce
// no notifications.
func NewExpiryDigestJob(params ExpiryDigestJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Offices == nil {
		return nil, fmt.Errorf("offices repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if params.Members == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if params.Admins == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notification writer required")
	}
	return &expiryDigestJob{
		logg:      params.Logger,
		offices:   params.Offices,
		inventory: params.Inventory,
		members:   params.Members,
		admins:    params.Admins,
		notifier:  params.Notifier,
		horizons:  params.Horizons,
	}, nil
}

type expiryDigestJob struct {
	logg      *logger.Logger
	offices   digestOfficesRepo
	inventory digestInventoryService
	members   digestMembersRepo
	admins    digestAdminsRepo
	notifier  notificationWriter
	horizons  []int
}

func (j *expiryDigestJob) Name() string { return "expiry-digest" }

func (j *expiryDigestJob) Run(ctx context.Context) (Result, error) {
	offices, err := j.offices.ListActive(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list offices: %w", err)
	}
	admins, err := j.admins.ListActiveAdmins(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list admins: %w", err)
	}

	result := Result{}
	for _, office := range offices {
		written, err := j.digestOffice(ctx, office, admins)
		if err != nil {
			return result, fmt.Errorf("digest office %s: %w", office.ID, err)
		}
		result.NotificationsWritten += written
	}
	return result, nil
}

func (j *expiryDigestJob) digestOffice(ctx context.Context, office models.Office, admins []models.User) (int, error) {
	buckets, err := j.inventory.NextExpiring(ctx, scope.ForOffices([]uuid.UUID{office.ID}), j.horizons)
	if err != nil {
		return 0, fmt.Errorf("query expiring lots: %w", err)
	}

	message := digestMessage(buckets)
	if message == "" {
		return 0, nil
	}

	members, err := j.members.ListOfficeMembers(ctx, office.ID)
	if err != nil {
		return 0, fmt.Errorf("list members: %w", err)
	}

	// Members first, then any admin not already covered by a membership.
	recipients := make([]uuid.UUID, 0, len(members)+len(admins))
	seen := make(map[uuid.UUID]struct{}, len(members)+len(admins))
	for _, member := range members {
		if _, ok := seen[member.UserID]; ok {
			continue
		}
		seen[member.UserID] = struct{}{}
		recipients = append(recipients, member.UserID)
	}
	for _, admin := range admins {
		if _, ok := seen[admin.ID]; ok {
			continue
		}
		seen[admin.ID] = struct{}{}
		recipients = append(recipients, admin.ID)
	}
	if len(recipients) == 0 {
		logCtx := j.logg.WithField(ctx, "office_id", office.ID.String())
		j.logg.Warn(logCtx, "office has expiring lots but nobody to notify")
		return 0, nil
	}

	officeID := office.ID
	batch := make([]notifications.NewNotification, 0, len(recipients))
	for _, userID := range recipients {
		batch = append(batch, notifications.NewNotification{
			UserID:   userID,
			OfficeID: &officeID,
			Type:     enums.NotificationTypeExpiryDigest,
			Title:    fmt.Sprintf("Expiring medications at %s", office.Name),
			Message:  message,
		})
	}
	return j.notifier.Deliver(ctx, batch)
}

// digestMessage renders the per-horizon counts, skipping empty horizons.
// Returns "" when nothing expires inside the widest horizon.
func digestMessage(buckets []inventory.HorizonBucket) string {
	parts := []string{}
	for _, bucket := range buckets {
		if len(bucket.Lots) == 0 {
			continue
		}
		noun := "lots"
		if len(bucket.Lots) == 1 {
			noun = "lot"
		}
		parts = append(parts, fmt.Sprintf("%d %s within %d days", len(bucket.Lots), noun, bucket.Days))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Expiring soon: " + strings.Join(parts, "; ")
}
