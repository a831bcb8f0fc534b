package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DatasetItem is one labelled row of the evaluation CSV
type DatasetItem struct {
	Text  string
	Label string
}

// loadDataset reads a text,label CSV with a header row
func loadDataset(path string, limit int) ([]DatasetItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	return parseDataset(file, limit)
}

func parseDataset(r io.Reader, limit int) ([]DatasetItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("dataset file must have at least a header and one row")
	}

	// Skip header row
	dataset := make([]DatasetItem, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue // Skip malformed rows
		}
		dataset = append(dataset, DatasetItem{
			Text:  record[0],
			Label: record[1],
		})
	}

	if limit > 0 && len(dataset) > limit {
		dataset = dataset[:limit]
	}
	return dataset, nil
}

// saveReport writes the report to dir as evaluation_<timestamp>_<id>.json
func saveReport(dir string, report Report) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	random := uuid.New().String()[:8]
	filename := filepath.Join(dir, fmt.Sprintf("evaluation_%s_%s.json", timestamp, random))

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return "", err
	}

	return filename, nil
}
