package inventory

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
)

const dateLayout = "2006-01-02"

// LotView is one lot joined with the office and medication it belongs to.
// Every scoped inventory read returns rows in this shape.
type LotView struct {
	LotID        uuid.UUID       `json:"lot_id"`
	OfficeID     uuid.UUID       `json:"office_id"`
	OfficeName   string          `json:"office_name"`
	MedicationID uuid.UUID       `json:"medication_id"`
	GenericName  string          `json:"generic_name"`
	Strength     string          `json:"strength,omitempty"`
	LotNumber    string          `json:"lot_number,omitempty"`
	Qty          int             `json:"qty"`
	ExpDate      time.Time       `json:"-"`
	Status       enums.LotStatus `json:"status"`
}

// ExpDateString renders the expiration at day granularity for transport.
func (v LotView) ExpDateString() string {
	return v.ExpDate.Format(dateLayout)
}

// MarshalJSON emits exp_date as a calendar date rather than a timestamp.
func (v LotView) MarshalJSON() ([]byte, error) {
	type alias LotView
	return json.Marshal(struct {
		alias
		ExpDate string `json:"exp_date"`
	}{
		alias:   alias(v),
		ExpDate: v.ExpDateString(),
	})
}

// SummaryRow aggregates one office-medication pair across its lots.
type SummaryRow struct {
	OfficeID     uuid.UUID `json:"office_id"`
	OfficeName   string    `json:"office_name"`
	MedicationID uuid.UUID `json:"medication_id"`
	GenericName  string    `json:"generic_name"`
	TotalQty     int       `json:"total_qty"`
	SoonestExp   string    `json:"soonest_exp"`
}

// GroupSummaryByOffice keys summary rows by office name for the JSON report.
// Rows arrive office-then-medication ordered, so each slice keeps the
// medication order as-is.
func GroupSummaryByOffice(rows []SummaryRow) map[string][]SummaryRow {
	grouped := make(map[string][]SummaryRow, len(rows))
	for _, row := range rows {
		grouped[row.OfficeName] = append(grouped[row.OfficeName], row)
	}
	return grouped
}

// HorizonBucket is one window of the multi-horizon view. Windows share the
// same start, so a lot expiring in 20 days appears in every bucket of at
// least 20 days.
type HorizonBucket struct {
	Days int       `json:"days"`
	Lots []LotView `json:"lots"`
}
