package cron

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/internal/notifications"
	"github.com/BrentRieck/Pharm-Tracking/internal/stock"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
)

type lowStockRepo interface {
	ListLowStock(ctx context.Context) ([]stock.LowStockRow, error)
}

// LowStockJobParams configure the reorder-threshold job.
type LowStockJobParams struct {
	Logger   *logger.Logger
	Stock    lowStockRepo
	Members  digestMembersRepo
	Notifier notificationWriter
}

// NewLowStockJob builds the job that notifies office members when a
// medication's usable quantity falls to or below its reorder threshold.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if params.Members == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notification writer required")
	}
	return &lowStockJob{
		logg:     params.Logger,
		stock:    params.Stock,
		members:  params.Members,
		notifier: params.Notifier,
	}, nil
}

type lowStockJob struct {
	logg     *logger.Logger
	stock    lowStockRepo
	members  digestMembersRepo
	notifier notificationWriter
}

func (j *lowStockJob) Name() string { return "low-stock" }

func (j *lowStockJob) Run(ctx context.Context) (Result, error) {
	rows, err := j.stock.ListLowStock(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list low stock: %w", err)
	}
	if len(rows) == 0 {
		return Result{}, nil
	}

	byOffice := map[uuid.UUID][]stock.LowStockRow{}
	order := []uuid.UUID{}
	for _, row := range rows {
		if _, seen := byOffice[row.OfficeID]; !seen {
			order = append(order, row.OfficeID)
		}
		byOffice[row.OfficeID] = append(byOffice[row.OfficeID], row)
	}

	result := Result{}
	for _, officeID := range order {
		written, err := j.notifyOffice(ctx, officeID, byOffice[officeID])
		if err != nil {
			return result, fmt.Errorf("notify office %s: %w", officeID, err)
		}
		result.NotificationsWritten += written
	}
	return result, nil
}

func (j *lowStockJob) notifyOffice(ctx context.Context, officeID uuid.UUID, rows []stock.LowStockRow) (int, error) {
	members, err := j.members.ListOfficeMembers(ctx, officeID)
	if err != nil {
		return 0, fmt.Errorf("list members: %w", err)
	}
	if len(members) == 0 {
		logCtx := j.logg.WithField(ctx, "office_id", officeID.String())
		j.logg.Warn(logCtx, "office has low stock but no members to notify")
		return 0, nil
	}

	items := make([]string, 0, len(rows))
	for _, row := range rows {
		items = append(items, fmt.Sprintf("%s (%d on hand, threshold %d)", row.GenericName, row.OnHand, row.ReorderThreshold))
	}
	message := "Below reorder threshold: " + strings.Join(items, ", ")

	id := officeID
	batch := make([]notifications.NewNotification, 0, len(members))
	for _, member := range members {
		batch = append(batch, notifications.NewNotification{
			UserID:   member.UserID,
			OfficeID: &id,
			Type:     enums.NotificationTypeLowStock,
			Title:    fmt.Sprintf("Low stock at %s", rows[0].OfficeName),
			Message:  message,
		})
	}
	return j.notifier.Deliver(ctx, batch)
}
