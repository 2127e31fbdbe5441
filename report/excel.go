package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

// ExcelExport writes the StatsReport into a multi-sheet workbook.
type ExcelExport struct {
	logger *utils.Logger
}

// NewExcelExport creates an ExcelExport.
func NewExcelExport(logger *utils.Logger) *ExcelExport {
	return &ExcelExport{logger: logger}
}

// Render writes the workbook for the given report to path.
func (e *ExcelExport) Render(stats *models.StatsReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("excel: create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeOverview(f, stats); err != nil {
		return err
	}
	if err := e.writeBoroughs(f, stats); err != nil {
		return err
	}
	if err := e.writeComplaints(f, stats); err != nil {
		return err
	}
	if err := e.writeHourly(f, stats); err != nil {
		return err
	}
	if err := e.writeMonthly(f, stats); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("excel: save %q: %w", path, err)
	}

	e.logger.Info("[excel] Wrote %s", path)
	return nil
}

func (e *ExcelExport) writeOverview(f *excelize.File, stats *models.StatsReport) error {
	const sheet = "Overview"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("excel: rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total records", stats.TotalRecords},
		{"Excluded rows", countOrNA(stats.ExcludedRecords)},
		{"Distinct boroughs", stats.DistinctBoroughs},
		{"Distinct complaint types", stats.DistinctComplaintTypes},
		{"Duplicate records", stats.DuplicateRecords},
		{"Response samples", stats.ResponseSamples},
		{"Mean response (hours)", cellOrNA(stats.MeanResponseHours)},
		{"Median response (hours)", cellOrNA(stats.MedianResponseHours)},
		{"Valid borough", stats.Quality.ValidBorough},
		{"Valid coordinates", stats.Quality.ValidCoordinates},
		{"Has closed date", stats.Quality.HasClosedDate},
	}
	return writeRows(f, sheet, rows)
}

func (e *ExcelExport) writeBoroughs(f *excelize.File, stats *models.StatsReport) error {
	const sheet = "Boroughs"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("excel: new sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Borough", "Complaints", "Mean Response (hours)"}}
	for _, b := range stats.BoroughStats {
		rows = append(rows, []interface{}{b.Borough, b.Count, cellOrNA(b.MeanResponseHours)})
	}
	if stats.UnknownBoroughCount > 0 {
		rows = append(rows, []interface{}{"(unspecified)", stats.UnknownBoroughCount, "n/a"})
	}
	return writeRows(f, sheet, rows)
}

func (e *ExcelExport) writeComplaints(f *excelize.File, stats *models.StatsReport) error {
	const sheet = "Complaint Types"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("excel: new sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Complaint Type", "Count"}}
	for _, c := range stats.TopComplaintTypes {
		rows = append(rows, []interface{}{c.ComplaintType, c.Count})
	}
	return writeRows(f, sheet, rows)
}

func (e *ExcelExport) writeHourly(f *excelize.File, stats *models.StatsReport) error {
	const sheet = "Hourly"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("excel: new sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Hour", "Complaints"}}
	for h, n := range stats.HourlyCounts {
		rows = append(rows, []interface{}{h, n})
	}
	if stats.UnknownHourCount > 0 {
		rows = append(rows, []interface{}{"(unknown)", stats.UnknownHourCount})
	}
	return writeRows(f, sheet, rows)
}

func (e *ExcelExport) writeMonthly(f *excelize.File, stats *models.StatsReport) error {
	const sheet = "Monthly"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("excel: new sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Month", "Complaints"}}
	for _, m := range stats.MonthlyCounts {
		rows = append(rows, []interface{}{m.YearMonth, m.Count})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("excel: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("excel: write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func cellOrNA(v *float64) interface{} {
	if v == nil {
		return "n/a"
	}
	return *v
}

func countOrNA(v *int) interface{} {
	if v == nil {
		return "n/a"
	}
	return *v
}
