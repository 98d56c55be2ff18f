package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
)

// MaxWindowDays caps the expiring-within query so a typo cannot scan years
// of shelf life.
const MaxWindowDays = 365

// DefaultWindow asks ExpiringWithin to use the configured window. Zero is a
// real horizon (lots expiring today), so the sentinel sits below it.
const DefaultWindow = -1

var defaultHorizons = []int{30, 60, 90}

type lotQuerier interface {
	ActiveLots(ctx context.Context, sc scope.Scope) ([]LotView, error)
	ExpiringWithin(ctx context.Context, sc scope.Scope, from, to time.Time) ([]LotView, error)
	Expired(ctx context.Context, sc scope.Scope, today time.Time) ([]LotView, error)
}

// Service is the read side of the tracker: scoped lot listings, the
// per-office summary, and the multi-horizon expiration view. It never
// mutates anything.
type Service interface {
	ActiveLots(ctx context.Context, sc scope.Scope) ([]LotView, error)
	ExpiringWithin(ctx context.Context, sc scope.Scope, days int) ([]LotView, error)
	Expired(ctx context.Context, sc scope.Scope) ([]LotView, error)
	Summary(ctx context.Context, sc scope.Scope) ([]SummaryRow, error)
	NextExpiring(ctx context.Context, sc scope.Scope, horizons []int) ([]HorizonBucket, error)
}

type service struct {
	repo        lotQuerier
	defaultDays int
	now         func() time.Time
}

// NewService builds the inventory read service. defaultDays is the window
// used when a caller does not name one.
func NewService(repo lotQuerier, defaultDays int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if defaultDays <= 0 {
		defaultDays = 60
	}
	return &service{repo: repo, defaultDays: defaultDays, now: time.Now}, nil
}

func (s *service) ActiveLots(ctx context.Context, sc scope.Scope) ([]LotView, error) {
	if sc.IsEmpty() {
		return []LotView{}, nil
	}
	rows, err := s.repo.ActiveLots(ctx, sc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query active lots")
	}
	return rows, nil
}

// ExpiringWithin lists usable lots expiring between today and today+days,
// both days included. days=0 means only lots expiring today;
// days=DefaultWindow applies the configured default.
func (s *service) ExpiringWithin(ctx context.Context, sc scope.Scope, days int) ([]LotView, error) {
	if days == DefaultWindow {
		days = s.defaultDays
	}
	if days < 0 || days > MaxWindowDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "days must be between 0 and 365")
	}
	if sc.IsEmpty() {
		return []LotView{}, nil
	}

	today := s.today()
	rows, err := s.repo.ExpiringWithin(ctx, sc, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query expiring lots")
	}
	return rows, nil
}

func (s *service) Expired(ctx context.Context, sc scope.Scope) ([]LotView, error) {
	if sc.IsEmpty() {
		return []LotView{}, nil
	}
	rows, err := s.repo.Expired(ctx, sc, s.today())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query expired lots")
	}
	return rows, nil
}

// Summary folds active lots into one row per office-medication pair with
// the quantity total and the soonest expiration. Offices with no usable
// lots simply do not appear.
func (s *service) Summary(ctx context.Context, sc scope.Scope) ([]SummaryRow, error) {
	lots, err := s.ActiveLots(ctx, sc)
	if err != nil {
		return nil, err
	}
	return summarize(lots), nil
}

// NextExpiring builds one bucket per horizon, all anchored at today. The
// buckets overlap: each one independently answers "what expires within N
// days". An unsorted or empty horizons slice gets the standard 30/60/90.
func (s *service) NextExpiring(ctx context.Context, sc scope.Scope, horizons []int) ([]HorizonBucket, error) {
	if len(horizons) == 0 {
		horizons = defaultHorizons
	}
	cleaned := make([]int, 0, len(horizons))
	for _, h := range horizons {
		if h < 0 || h > MaxWindowDays {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "horizons must be between 0 and 365 days")
		}
		cleaned = append(cleaned, h)
	}
	sort.Ints(cleaned)

	if sc.IsEmpty() {
		out := make([]HorizonBucket, 0, len(cleaned))
		for _, h := range cleaned {
			out = append(out, HorizonBucket{Days: h, Lots: []LotView{}})
		}
		return out, nil
	}

	today := s.today()
	widest, err := s.repo.ExpiringWithin(ctx, sc, today, today.AddDate(0, 0, cleaned[len(cleaned)-1]))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query expiring lots")
	}

	out := make([]HorizonBucket, 0, len(cleaned))
	for _, h := range cleaned {
		cutoff := today.AddDate(0, 0, h)
		bucket := HorizonBucket{Days: h, Lots: []LotView{}}
		for _, lot := range widest {
			if !lot.ExpDate.After(cutoff) {
				bucket.Lots = append(bucket.Lots, lot)
			}
		}
		out = append(out, bucket)
	}
	return out, nil
}

// today truncates the clock in its own location, so the calendar date is
// the one local to wherever the clock runs.
func (s *service) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// summarize relies on the repo ordering (office name, generic name,
// exp date) so the first lot of each group carries the earliest date.
func summarize(lots []LotView) []SummaryRow {
	out := []SummaryRow{}
	for _, lot := range lots {
		n := len(out)
		if n > 0 && out[n-1].OfficeID == lot.OfficeID && out[n-1].MedicationID == lot.MedicationID {
			out[n-1].TotalQty += lot.Qty
			continue
		}
		out = append(out, SummaryRow{
			OfficeID:     lot.OfficeID,
			OfficeName:   lot.OfficeName,
			MedicationID: lot.MedicationID,
			GenericName:  lot.GenericName,
			TotalQty:     lot.Qty,
			SoonestExp:  lot.ExpDateString(),
		})
	}
	return out
}
