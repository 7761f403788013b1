package history

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/typesprint/internal/model"
)

const exportSheet = "Sheet1"

var exportHeaders = []any{"ID", "Timestamp", "WPM", "Accuracy (%)", "Duration (s)", "Text Length"}

// Export writes results to an xlsx workbook, one row per result in
// completion order.
func Export(path string, results []model.Result) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.ID,
			r.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
			r.WPM,
			r.Accuracy,
			r.DurationSeconds,
			r.TextLength,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "B", 38); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
