package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"webcensus/internal/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		RunID: "run-1",
		Seed:  "https://ex.com",
		Summary: models.ReportSummary{
			Total:    3,
			Internal: 2,
			External: 1,
		},
		Types: map[models.AssetType]int{
			models.AssetLink: 2,
			models.AssetCSS:  1,
		},
		StatusCodes: map[int]*models.StatusBucket{
			200: {Total: 2, Internal: 2},
			404: {
				Total:    1,
				External: 1,
				Samples: []models.StatusSample{
					{URL: "https://ex.com/gone", FoundOn: "https://ex.com"},
				},
			},
		},
	}
}

func TestNewSelectsFormat(t *testing.T) {
	if New("json") == nil || New("csv") == nil || New("xlsx") == nil {
		t.Fatal("expected exporters for known formats")
	}
	if New("yaml") != nil {
		t.Fatal("expected nil for unknown format")
	}
}

func TestJSONExport(t *testing.T) {
	base := filepath.Join(t.TempDir(), "report")
	if err := NewJSONExporter().Export(sampleReport(), base); err != nil {
		t.Fatalf("Export: %v", err)
	}
	raw, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, want := range []string{`"seed": "https://ex.com"`, `"total": 3`, `"https://ex.com/gone"`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("expected JSON to contain %q, got:\n%s", want, raw)
		}
	}
}

func TestCSVExport(t *testing.T) {
	base := filepath.Join(t.TempDir(), "report")
	if err := NewCSVExporter().Export(sampleReport(), base); err != nil {
		t.Fatalf("Export: %v", err)
	}
	raw, err := os.ReadFile(base + ".csv")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, "200") || !strings.Contains(body, "404") {
		t.Fatalf("expected both status buckets in CSV:\n%s", body)
	}
	if !strings.Contains(body, "https://ex.com/gone") {
		t.Fatalf("expected sample URL in CSV:\n%s", body)
	}
}

func TestCSVRowOrderDeterministic(t *testing.T) {
	rows := (&CSVExporter{}).transformReport(sampleReport())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Status != "200" || rows[1].Status != "404" {
		t.Fatalf("expected ascending status order, got %+v", rows)
	}
	if rows[1].SampleURL != "https://ex.com/gone" {
		t.Fatalf("expected sample on bucket head row, got %+v", rows[1])
	}
}

func TestExcelExport(t *testing.T) {
	base := filepath.Join(t.TempDir(), "report")
	if err := NewExcelExporter().Export(sampleReport(), base); err != nil {
		t.Fatalf("Export: %v", err)
	}
	info, err := os.Stat(base + ".xlsx")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty workbook")
	}
}
