package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	analyzer "github.com/FrenchMajesty/text-analyzer"
	"github.com/FrenchMajesty/text-analyzer/bayes"
	"github.com/FrenchMajesty/text-analyzer/model"
)

// Report summarizes a classifier run over a labelled dataset
type Report struct {
	Classifier     string                    `json:"classifier"`
	Total          int                       `json:"total"`
	Correct        int                       `json:"correct"`
	Failed         int                       `json:"failed"`
	Accuracy       float64                   `json:"accuracy"`
	MeanConfidence float64                   `json:"mean_confidence"`
	Confusion      map[string]map[string]int `json:"confusion"`
	Duration       time.Duration             `json:"duration_ns"`
}

// evaluate classifies every item. Expected labels that are numeric class ids
// are translated with labels first, so a 0/1 column scores against the
// detector's display labels.
func evaluate(ctx context.Context, c analyzer.TextClassifier, items []DatasetItem, labels bayes.LabelMap) (Report, error) {
	start := time.Now()
	report := Report{
		Classifier: c.Name(),
		Confusion:  make(map[string]map[string]int),
	}

	var confidence float64
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := c.Predict(ctx, item.Text)
		if err != nil {
			slog.Warn("prediction failed", "row", i+1, "error", err)
			report.Failed++
			continue
		}

		expected := expectedLabel(item.Label, labels)
		predicted := strings.ToLower(result.Label)

		if report.Confusion[expected] == nil {
			report.Confusion[expected] = make(map[string]int)
		}
		report.Confusion[expected][predicted]++

		report.Total++
		confidence += result.Confidence
		if expected == predicted {
			report.Correct++
		}
	}

	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total)
		report.MeanConfidence = confidence / float64(report.Total)
	}
	report.Duration = time.Since(start)

	return report, nil
}

func expectedLabel(raw string, labels bayes.LabelMap) string {
	raw = strings.TrimSpace(raw)

	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		var id model.ClassID
		if err := json.Unmarshal([]byte(raw), &id); err == nil {
			return strings.ToLower(labels.Label(id))
		}
	}

	return strings.ToLower(raw)
}
