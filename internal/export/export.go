// Package export writes the final crawl report to files in various formats.
package export

import "webcensus/internal/models"

type Exporter interface {
	// Export writes the report to filename plus a format-specific extension.
	Export(report *models.Report, filename string) error
}

// New returns the exporter for a format name, or nil if unknown.
func New(format string) Exporter {
	switch format {
	case "json":
		return NewJSONExporter()
	case "csv":
		return NewCSVExporter()
	case "xlsx":
		return NewExcelExporter()
	default:
		return nil
	}
}
