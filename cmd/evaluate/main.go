// Command evaluate scores the sarcasm model against a labelled CSV and
// writes a JSON report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/FrenchMajesty/text-analyzer/bayes"
	"github.com/FrenchMajesty/text-analyzer/internal/app"
	"github.com/FrenchMajesty/text-analyzer/internal/config"
	"github.com/FrenchMajesty/text-analyzer/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	datasetPath := flag.String("dataset", os.Getenv("DATASET_FILEPATH"), "CSV file with text,label columns and a header row")
	modelPath := flag.String("model", "", "model file, overrides the configured source")
	limit := flag.Int("limit", 0, "evaluate at most this many rows (0 = all)")
	outDir := flag.String("out", ".", "directory for the report file")
	flag.Parse()

	if err := run(*configPath, *datasetPath, *modelPath, *limit, *outDir); err != nil {
		slog.Error("evaluation failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, datasetPath, modelPath string, limit int, outDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Configure(cfg.Log.Level)

	if datasetPath == "" {
		return fmt.Errorf("no dataset given: use -dataset or DATASET_FILEPATH")
	}
	if modelPath != "" {
		cfg.Model.Path = modelPath
		cfg.Model.S3.Bucket = ""
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detector, err := app.NewSarcasmDetector(cfg.Model)
	if err != nil {
		return err
	}
	if err := detector.Load(ctx); err != nil {
		return err
	}

	items, err := loadDataset(datasetPath, limit)
	if err != nil {
		return err
	}
	slog.Info("evaluating", "rows", len(items), "dataset", datasetPath)

	report, err := evaluate(ctx, detector, items, bayes.SarcasmLabels())
	if err != nil {
		return err
	}

	filename, err := saveReport(outDir, report)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	slog.Info("evaluation complete",
		"accuracy", report.Accuracy,
		"mean_confidence", report.MeanConfidence,
		"rows", report.Total,
		"failed", report.Failed,
		"report", filename)
	return nil
}
