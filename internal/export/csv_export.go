package export

import (
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/gocarina/gocsv"

	"webcensus/internal/models"
)

type StatusRow struct {
	Status    string `csv:"Status,omitempty"`
	Total     string `csv:"Total,omitempty"`
	Internal  string `csv:"Internal,omitempty"`
	External  string `csv:"External,omitempty"`
	SampleURL string `csv:"Sample URL"`
	FoundOn   string `csv:"Found On"`
}

type CSVExporter struct{}

func NewCSVExporter() Exporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(report *models.Report, filename string) error {
	file, err := os.Create(filename + ".csv")
	if err != nil {
		log.Printf("Error creating file %s: %v", filename, err)
		return err
	}
	defer file.Close()

	rows := e.transformReport(report)

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		log.Printf("Error exporting report to CSV: %v", err)
		return err
	}
	return nil
}

// transformReport flattens the status buckets into rows, one per sample URL;
// the first row of each bucket carries the counts.
func (e *CSVExporter) transformReport(report *models.Report) []StatusRow {
	statuses := make([]int, 0, len(report.StatusCodes))
	for status := range report.StatusCodes {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)

	var rows []StatusRow
	for _, status := range statuses {
		bucket := report.StatusCodes[status]
		head := StatusRow{
			Status:   strconv.Itoa(status),
			Total:    strconv.Itoa(bucket.Total),
			Internal: strconv.Itoa(bucket.Internal),
			External: strconv.Itoa(bucket.External),
		}
		if len(bucket.Samples) == 0 {
			rows = append(rows, head)
			continue
		}
		for i, sample := range bucket.Samples {
			row := StatusRow{SampleURL: sample.URL, FoundOn: sample.FoundOn}
			if i == 0 {
				row.Status = head.Status
				row.Total = head.Total
				row.Internal = head.Internal
				row.External = head.External
			}
			rows = append(rows, row)
		}
	}
	return rows
}
