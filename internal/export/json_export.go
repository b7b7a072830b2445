package export

import (
	"encoding/json"
	"log"
	"os"

	"webcensus/internal/models"
)

type JSONExporter struct{}

func NewJSONExporter() Exporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Export(report *models.Report, filename string) error {
	file, err := os.Create(filename + ".json")
	if err != nil {
		log.Printf("Error creating file %s: %v", filename, err)
		return err
	}
	defer file.Close()

	raw, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		log.Printf("Error marshalling report: %v", err)
		return err
	}

	if _, err := file.Write(raw); err != nil {
		log.Printf("Error exporting report to JSON: %v", err)
		return err
	}
	return nil
}
