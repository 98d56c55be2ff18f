package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
)

var summaryCSVHeader = []string{"office", "medication", "total_qty", "soonest_exp"}

// WriteSummaryCSV streams the inventory summary as CSV in the same order
// the rows arrive in.
func WriteSummaryCSV(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.OfficeName,
			row.GenericName,
			fmt.Sprintf("%d", row.TotalQty),
			row.SoonestExp,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var expiringCSVHeader = []string{"office", "medication", "lot_number", "qty", "exp_date"}

// WriteExpiringCSV streams lot rows as CSV in the same order the rows
// arrive in.
func WriteExpiringCSV(w io.Writer, rows []LotView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expiringCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.OfficeName,
			row.GenericName,
			row.LotNumber,
			fmt.Sprintf("%d", row.Qty),
			row.ExpDateString(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
