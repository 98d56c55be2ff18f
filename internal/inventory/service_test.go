package inventory

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/BrentRieck/Pharm-Tracking/internal/scope"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
	"github.com/google/uuid"
)

var testToday = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

// fakeLotStore mimics the repo contract in memory, including its filters
// and its office/medication/exp_date ordering.
type fakeLotStore struct {
	lots []LotView
}

func (f *fakeLotStore) visible(sc scope.Scope) []LotView {
	out := []LotView{}
	for _, lot := range f.lots {
		if sc.Allows(lot.OfficeID) {
			out = append(out, lot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OfficeName != out[j].OfficeName {
			return out[i].OfficeName < out[j].OfficeName
		}
		if out[i].GenericName != out[j].GenericName {
			return out[i].GenericName < out[j].GenericName
		}
		return out[i].ExpDate.Before(out[j].ExpDate)
	})
	return out
}

func (f *fakeLotStore) ActiveLots(_ context.Context, sc scope.Scope) ([]LotView, error) {
	out := []LotView{}
	for _, lot := range f.visible(sc) {
		if lot.Status == enums.LotStatusActive {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (f *fakeLotStore) ExpiringWithin(_ context.Context, sc scope.Scope, from, to time.Time) ([]LotView, error) {
	out := []LotView{}
	for _, lot := range f.visible(sc) {
		if lot.Status != enums.LotStatusActive {
			continue
		}
		if !lot.ExpDate.Before(from) && !lot.ExpDate.After(to) {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (f *fakeLotStore) Expired(_ context.Context, sc scope.Scope, today time.Time) ([]LotView, error) {
	out := []LotView{}
	for _, lot := range f.visible(sc) {
		if lot.ExpDate.Before(today) {
			out = append(out, lot)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, store *fakeLotStore) *service {
	t.Helper()
	svc, err := NewService(store, 60)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	concrete := svc.(*service)
	concrete.now = func() time.Time { return testToday.Add(14 * time.Hour) }
	return concrete
}

func lotAt(office, med string, officeID, medID uuid.UUID, qty int, exp time.Time, status enums.LotStatus) LotView {
	return LotView{
		LotID:        uuid.New(),
		OfficeID:     officeID,
		OfficeName:   office,
		MedicationID: medID,
		GenericName:  med,
		Qty:          qty,
		ExpDate:      exp,
		Status:       status,
	}
}

func TestExpiringWithinBoundsInclusive(t *testing.T) {
	officeID := uuid.New()
	medID := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Main", "amoxicillin", officeID, medID, 1, testToday, enums.LotStatusActive),                    // today
		lotAt("Main", "amoxicillin", officeID, medID, 2, testToday.AddDate(0, 0, 30), enums.LotStatusActive),  // upper bound
		lotAt("Main", "amoxicillin", officeID, medID, 4, testToday.AddDate(0, 0, 31), enums.LotStatusActive),  // past bound
		lotAt("Main", "amoxicillin", officeID, medID, 8, testToday.AddDate(0, 0, -1), enums.LotStatusActive),  // already expired
	}}
	svc := newTestService(t, store)

	rows, err := svc.ExpiringWithin(context.Background(), scope.Unrestricted(), 30)
	if err != nil {
		t.Fatalf("expiring within: %v", err)
	}
	total := 0
	for _, row := range rows {
		total += row.Qty
	}
	if len(rows) != 2 || total != 3 {
		t.Fatalf("expected the today and day-30 lots only, got %d rows (qty sum %d)", len(rows), total)
	}
}

func TestExpiringWithinDefaultsToConfiguredWindow(t *testing.T) {
	officeID := uuid.New()
	medID := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Main", "insulin", officeID, medID, 1, testToday.AddDate(0, 0, 45), enums.LotStatusActive),
		lotAt("Main", "insulin", officeID, medID, 1, testToday.AddDate(0, 0, 75), enums.LotStatusActive),
	}}
	svc := newTestService(t, store)

	rows, err := svc.ExpiringWithin(context.Background(), scope.Unrestricted(), DefaultWindow)
	if err != nil {
		t.Fatalf("expiring within default: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the 45-day lot inside the 60-day default, got %d", len(rows))
	}
}

func TestExpiringWithinZeroDaysMeansToday(t *testing.T) {
	officeID := uuid.New()
	medID := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Main", "insulin", officeID, medID, 1, testToday, enums.LotStatusActive),
		lotAt("Main", "insulin", officeID, medID, 2, testToday.AddDate(0, 0, 30), enums.LotStatusActive),
		lotAt("Main", "insulin", officeID, medID, 4, testToday.AddDate(0, 0, -1), enums.LotStatusActive),
	}}
	svc := newTestService(t, store)

	rows, err := svc.ExpiringWithin(context.Background(), scope.Unrestricted(), 0)
	if err != nil {
		t.Fatalf("expiring within zero days: %v", err)
	}
	if len(rows) != 1 || rows[0].Qty != 1 {
		t.Fatalf("expected only the lot expiring today, got %+v", rows)
	}
}

func TestExpiringWithinRejectsOutOfRangeDays(t *testing.T) {
	svc := newTestService(t, &fakeLotStore{})

	for _, days := range []int{-5, 366} {
		_, err := svc.ExpiringWithin(context.Background(), scope.Unrestricted(), days)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("days=%d: expected validation error, got %v", days, err)
		}
	}
}

func TestExpiredIgnoresStatus(t *testing.T) {
	officeID := uuid.New()
	medID := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Main", "epinephrine", officeID, medID, 1, testToday.AddDate(0, 0, -3), enums.LotStatusDiscarded),
		lotAt("Main", "epinephrine", officeID, medID, 2, testToday.AddDate(0, 0, -1), enums.LotStatusActive),
		lotAt("Main", "epinephrine", officeID, medID, 4, testToday, enums.LotStatusActive), // today is not expired
	}}
	svc := newTestService(t, store)

	rows, err := svc.Expired(context.Background(), scope.Unrestricted())
	if err != nil {
		t.Fatalf("expired: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected discarded and active past-dated lots, got %d rows", len(rows))
	}
}

func TestQueriesShortCircuitOnEmptyScope(t *testing.T) {
	officeID := uuid.New()
	medID := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Main", "amoxicillin", officeID, medID, 5, testToday.AddDate(0, 0, 10), enums.LotStatusActive),
	}}
	svc := newTestService(t, store)
	empty := scope.ForOffices(nil)

	if rows, err := svc.ActiveLots(context.Background(), empty); err != nil || len(rows) != 0 {
		t.Fatalf("active: expected empty result, got %v rows err %v", len(rows), err)
	}
	if rows, err := svc.ExpiringWithin(context.Background(), empty, 30); err != nil || len(rows) != 0 {
		t.Fatalf("expiring: expected empty result, got %v rows err %v", len(rows), err)
	}
	if rows, err := svc.Summary(context.Background(), empty); err != nil || len(rows) != 0 {
		t.Fatalf("summary: expected empty result, got %v rows err %v", len(rows), err)
	}
}

func TestScopeNarrowingNeverWidensResults(t *testing.T) {
	officeA := uuid.New()
	officeB := uuid.New()
	medID := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Alpha", "amoxicillin", officeA, medID, 5, testToday.AddDate(0, 0, 10), enums.LotStatusActive),
		lotAt("Beta", "amoxicillin", officeB, medID, 7, testToday.AddDate(0, 0, 10), enums.LotStatusActive),
	}}
	svc := newTestService(t, store)

	all, err := svc.ActiveLots(context.Background(), scope.Unrestricted())
	if err != nil {
		t.Fatalf("unrestricted: %v", err)
	}
	one, err := svc.ActiveLots(context.Background(), scope.ForOffices([]uuid.UUID{officeA}))
	if err != nil {
		t.Fatalf("scoped: %v", err)
	}
	if len(one) >= len(all) && len(all) != len(one) {
		t.Fatalf("narrowed scope returned more rows (%d) than unrestricted (%d)", len(one), len(all))
	}
	for _, lot := range one {
		if lot.OfficeID != officeA {
			t.Fatalf("scoped query leaked office %s", lot.OfficeID)
		}
	}
}

func TestSummaryGroupsAndOrders(t *testing.T) {
	officeA := uuid.New()
	officeB := uuid.New()
	amox := uuid.New()
	ibup := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Beta", "amoxicillin", officeB, amox, 3, testToday.AddDate(0, 0, 40), enums.LotStatusActive),
		lotAt("Alpha", "ibuprofen", officeA, ibup, 10, testToday.AddDate(0, 0, 90), enums.LotStatusActive),
		lotAt("Alpha", "amoxicillin", officeA, amox, 5, testToday.AddDate(0, 0, 20), enums.LotStatusActive),
		lotAt("Alpha", "amoxicillin", officeA, amox, 2, testToday.AddDate(0, 0, 60), enums.LotStatusActive),
		lotAt("Alpha", "amoxicillin", officeA, amox, 1, testToday.AddDate(0, 0, 5), enums.LotStatusDiscarded), // excluded
	}}
	svc := newTestService(t, store)

	rows, err := svc.Summary(context.Background(), scope.Unrestricted())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 summary rows, got %d: %+v", len(rows), rows)
	}

	// office name then generic name ordering
	if rows[0].OfficeName != "Alpha" || rows[0].GenericName != "amoxicillin" {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[0].TotalQty != 7 {
		t.Fatalf("expected amoxicillin total 7, got %d", rows[0].TotalQty)
	}
	if rows[0].SoonestExp != testToday.AddDate(0, 0, 20).Format(dateLayout) {
		t.Fatalf("expected soonest exp at day 20, got %s", rows[0].SoonestExp)
	}
	if rows[1].GenericName != "ibuprofen" {
		t.Fatalf("unexpected second row %+v", rows[1])
	}
	if rows[2].OfficeName != "Beta" {
		t.Fatalf("unexpected third row %+v", rows[2])
	}
}

func TestSummaryOmitsOfficesWithoutUsableLots(t *testing.T) {
	officeA := uuid.New()
	officeB := uuid.New()
	medID := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Alpha", "amoxicillin", officeA, medID, 5, testToday.AddDate(0, 0, 20), enums.LotStatusActive),
		lotAt("Beta", "amoxicillin", officeB, medID, 5, testToday.AddDate(0, 0, 20), enums.LotStatusUsedUp),
	}}
	svc := newTestService(t, store)

	rows, err := svc.Summary(context.Background(), scope.Unrestricted())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rows) != 1 || rows[0].OfficeName != "Alpha" {
		t.Fatalf("expected only Alpha, got %+v", rows)
	}
}

func TestNextExpiringBucketsOverlap(t *testing.T) {
	officeID := uuid.New()
	medID := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Main", "amoxicillin", officeID, medID, 1, testToday.AddDate(0, 0, 20), enums.LotStatusActive),
		lotAt("Main", "amoxicillin", officeID, medID, 2, testToday.AddDate(0, 0, 50), enums.LotStatusActive),
		lotAt("Main", "amoxicillin", officeID, medID, 4, testToday.AddDate(0, 0, 85), enums.LotStatusActive),
		lotAt("Main", "amoxicillin", officeID, medID, 8, testToday.AddDate(0, 0, 120), enums.LotStatusActive),
	}}
	svc := newTestService(t, store)

	buckets, err := svc.NextExpiring(context.Background(), scope.Unrestricted(), nil)
	if err != nil {
		t.Fatalf("next expiring: %v", err)
	}
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}

	counts := map[int]int{}
	for _, b := range buckets {
		counts[b.Days] = len(b.Lots)
	}
	if counts[30] != 1 || counts[60] != 2 || counts[90] != 3 {
		t.Fatalf("unexpected bucket sizes: %v", counts)
	}

	// the 20-day lot must appear in every bucket
	for _, b := range buckets {
		found := false
		for _, lot := range b.Lots {
			if lot.Qty == 1 {
				found = true
			}
		}
		if !found {
			t.Fatalf("20-day lot missing from %d-day bucket", b.Days)
		}
	}
}

func TestNextExpiringRejectsBadHorizon(t *testing.T) {
	svc := newTestService(t, &fakeLotStore{})

	for _, horizons := range [][]int{{30, -1}, {30, 366}} {
		_, err := svc.NextExpiring(context.Background(), scope.Unrestricted(), horizons)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("horizons=%v: expected validation error, got %v", horizons, err)
		}
	}
}

func TestNextExpiringZeroHorizonHoldsOnlyToday(t *testing.T) {
	officeID := uuid.New()
	medID := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Main", "insulin", officeID, medID, 1, testToday, enums.LotStatusActive),
		lotAt("Main", "insulin", officeID, medID, 2, testToday.AddDate(0, 0, 10), enums.LotStatusActive),
	}}
	svc := newTestService(t, store)

	buckets, err := svc.NextExpiring(context.Background(), scope.Unrestricted(), []int{0, 30})
	if err != nil {
		t.Fatalf("next expiring: %v", err)
	}
	counts := map[int]int{}
	for _, b := range buckets {
		counts[b.Days] = len(b.Lots)
	}
	if counts[0] != 1 || counts[30] != 2 {
		t.Fatalf("unexpected bucket sizes: %v", counts)
	}
}

func TestNextExpiringEmptyScopeReturnsEmptyBuckets(t *testing.T) {
	svc := newTestService(t, &fakeLotStore{})

	buckets, err := svc.NextExpiring(context.Background(), scope.ForOffices(nil), []int{30, 60})
	if err != nil {
		t.Fatalf("next expiring: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	for _, b := range buckets {
		if len(b.Lots) != 0 {
			t.Fatalf("expected empty bucket for %d days", b.Days)
		}
	}
}

func TestExpiredUsesClockLocalCalendarDate(t *testing.T) {
	officeID := uuid.New()
	medID := uuid.New()
	store := &fakeLotStore{lots: []LotView{
		lotAt("Main", "amoxicillin", officeID, medID, 3, time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC), enums.LotStatusActive),
	}}
	svc := newTestService(t, store)
	// Just past local midnight on June 15; still June 14 in UTC.
	zone := time.FixedZone("UTC+3", 3*60*60)
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 1, 0, 0, 0, zone) }

	rows, err := svc.Expired(context.Background(), scope.Unrestricted())
	if err != nil {
		t.Fatalf("expired: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected the June 14 lot to be expired on local June 15, got %+v", rows)
	}
}

func TestGroupSummaryByOfficeKeepsRowOrder(t *testing.T) {
	rows := []SummaryRow{
		{OfficeName: "Alpha", GenericName: "amoxicillin", TotalQty: 7, SoonestExp: "2026-07-05"},
		{OfficeName: "Alpha", GenericName: "ibuprofen", TotalQty: 3, SoonestExp: "2026-07-20"},
		{OfficeName: "Beta", GenericName: "amoxicillin", TotalQty: 2, SoonestExp: "2026-08-01"},
	}

	grouped := GroupSummaryByOffice(rows)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 offices, got %d", len(grouped))
	}
	alpha := grouped["Alpha"]
	if len(alpha) != 2 || alpha[0].GenericName != "amoxicillin" || alpha[1].GenericName != "ibuprofen" {
		t.Fatalf("unexpected Alpha rows: %+v", alpha)
	}
	if len(grouped["Beta"]) != 1 || grouped["Beta"][0].TotalQty != 2 {
		t.Fatalf("unexpected Beta rows: %+v", grouped["Beta"])
	}
}

func TestWriteSummaryCSV(t *testing.T) {
	rows := []SummaryRow{
		{OfficeName: "Alpha", GenericName: "amoxicillin", TotalQty: 7, SoonestExp: "2026-07-05"},
		{OfficeName: "Beta", GenericName: "ibuprofen, coated", TotalQty: 2, SoonestExp: "2026-08-01"},
	}

	var sb strings.Builder
	if err := WriteSummaryCSV(&sb, rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "office,medication,total_qty,soonest_exp" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], `"ibuprofen, coated"`) {
		t.Fatalf("expected quoted comma field, got %q", lines[2])
	}
}
