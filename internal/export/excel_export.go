package export

import (
	"fmt"
	"log"
	"sort"

	"github.com/xuri/excelize/v2"

	"webcensus/internal/models"
)

type ExcelExporter struct{}

func NewExcelExporter() Exporter {
	return &ExcelExporter{}
}

// Export writes a workbook with a Summary sheet (totals and per-type counts)
// and a Status Codes sheet (one row per bucket with sample URLs).
func (e *ExcelExporter) Export(report *models.Report, filename string) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing workbook: %v", err)
		}
	}()

	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	setRow(f, summary, 1, "Seed", report.Seed)
	setRow(f, summary, 2, "Total", report.Summary.Total)
	setRow(f, summary, 3, "Internal", report.Summary.Internal)
	setRow(f, summary, 4, "External", report.Summary.External)

	row := 6
	setRow(f, summary, row, "Type", "Count")
	types := make([]models.AssetType, 0, len(report.Types))
	for at := range report.Types {
		types = append(types, at)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, at := range types {
		row++
		setRow(f, summary, row, string(at), report.Types[at])
	}

	statusSheet := "Status Codes"
	if _, err := f.NewSheet(statusSheet); err != nil {
		return err
	}
	setRow(f, statusSheet, 1, "Status", "Total", "Internal", "External", "Sample URL", "Found On")
	statuses := make([]int, 0, len(report.StatusCodes))
	for status := range report.StatusCodes {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	row = 1
	for _, status := range statuses {
		bucket := report.StatusCodes[status]
		row++
		setRow(f, statusSheet, row, status, bucket.Total, bucket.Internal, bucket.External)
		for i, sample := range bucket.Samples {
			if i > 0 {
				row++
			}
			if err := f.SetCellValue(statusSheet, fmt.Sprintf("E%d", row), sample.URL); err != nil {
				return err
			}
			if err := f.SetCellValue(statusSheet, fmt.Sprintf("F%d", row), sample.FoundOn); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(filename + ".xlsx"); err != nil {
		log.Printf("Error exporting report to XLSX: %v", err)
		return err
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			log.Printf("Error setting cell %s!%s: %v", sheet, cell, err)
		}
	}
}
